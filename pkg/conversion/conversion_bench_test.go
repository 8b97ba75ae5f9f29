package conversion

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func BenchmarkConvert(b *testing.B) {
	dir := b.TempDir()
	in := sampleList(20000).Write(b, dir, "bench.csf")

	for _, workers := range []int{0, 1, 4} {
		name := "sequential"
		convert := Convert
		if workers > 0 {
			name = fmt.Sprintf("parallel-%d", workers)
			convert = ConvertParallel
		}
		b.Run(name, func(b *testing.B) {
			opts := DefaultOptions()
			opts.Logger = zap.NewNop()
			opts.Workers = workers
			opts.ChunkSize = 2000
			out := filepath.Join(dir, name+".parquet")
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := convert(context.Background(), in, out, opts); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
