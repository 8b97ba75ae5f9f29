// # Environment Variable Substitution
//
// Config files may reference environment variables with ${VAR_NAME}:
//
//	performance:
//	  workers: ${CSFS_WORKERS}
//	descriptors:
//	  mode: on
//	  peel_subshells: [5s, 4d-, 4d, 5p-, 5p, 6s]
//	  normalize: true
//	  max_cumulative_doubled_j: ${MAX_J}
//
// Unset variables expand to the empty string. Values in the file override
// the defaults of NewConversionConfig; LoadConversion validates the result.
package config
