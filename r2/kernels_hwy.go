package r2

//go:generate hwygen -input $GOFILE -output . -targets avx2,fallback

import (
	"github.com/ajroetker/go-highway/hwy"
)

// BaseBounds computes the per-axis minimum and maximum of de-interleaved
// planar coordinates in one pass. Empty input yields zeros.
func BaseBounds[T hwy.Floats](xs, ys []T) (loX, loY, hiX, hiY T) {
	size := min(len(xs), len(ys))
	if size == 0 {
		return 0, 0, 0, 0
	}

	loX, hiX = xs[0], xs[0]
	loY, hiY = ys[0], ys[0]
	vLoX, vHiX := hwy.Set(loX), hwy.Set(hiX)
	vLoY, vHiY := hwy.Set(loY), hwy.Set(hiY)

	hwy.ProcessWithTail[T](size,
		func(offset int) {
			x := hwy.Load(xs[offset:])
			y := hwy.Load(ys[offset:])
			vLoX, vHiX = hwy.Min(vLoX, x), hwy.Max(vHiX, x)
			vLoY, vHiY = hwy.Min(vLoY, y), hwy.Max(vHiY, y)
		},
		func(offset, count int) {
			for i := offset; i < offset+count; i++ {
				loX, hiX = min(loX, xs[i]), max(hiX, xs[i])
				loY, hiY = min(loY, ys[i]), max(hiY, ys[i])
			}
		},
	)

	return min(loX, hwy.ReduceMin(vLoX)), min(loY, hwy.ReduceMin(vLoY)),
		max(hiX, hwy.ReduceMax(vHiX)), max(hiY, hwy.ReduceMax(vHiY))
}

// BaseSumPoints computes the vector sum of a list of planar coordinates.
// Input is de-interleaved (separate slices for X and Y).
func BaseSumPoints[T hwy.Floats](xs, ys []T) (sumX, sumY T) {
	size := min(len(xs), len(ys))

	vSumX := hwy.Zero[T]()
	vSumY := hwy.Zero[T]()

	hwy.ProcessWithTail[T](size,
		func(offset int) {
			vSumX = hwy.Add(vSumX, hwy.Load(xs[offset:]))
			vSumY = hwy.Add(vSumY, hwy.Load(ys[offset:]))
		},
		func(offset, count int) {
			mask := hwy.TailMask[T](count)
			vSumX = hwy.Add(vSumX, hwy.MaskLoad(mask, xs[offset:]))
			vSumY = hwy.Add(vSumY, hwy.MaskLoad(mask, ys[offset:]))
		},
	)

	return hwy.ReduceSum(vSumX), hwy.ReduceSum(vSumY)
}

// BaseSquaredDistances writes (x-tx)² + (y-ty)² for every point into out.
// out must be at least as long as the shorter of xs and ys.
func BaseSquaredDistances[T hwy.Floats](targetX, targetY T, xs, ys, out []T) {
	size := min(len(xs), len(ys), len(out))

	vTx := hwy.Set(targetX)
	vTy := hwy.Set(targetY)

	hwy.ProcessWithTail[T](size,
		func(offset int) {
			dx := hwy.Sub(hwy.Load(xs[offset:]), vTx)
			dy := hwy.Sub(hwy.Load(ys[offset:]), vTy)
			hwy.Store(hwy.Add(hwy.Mul(dx, dx), hwy.Mul(dy, dy)), out[offset:])
		},
		func(offset, count int) {
			for i := offset; i < offset+count; i++ {
				dx := xs[i] - targetX
				dy := ys[i] - targetY
				out[i] = dx*dx + dy*dy
			}
		},
	)
}

// BaseSegmentLengthsSq writes the squared length of every segment of the
// chain (xs[i], ys[i]) -> (xs[i+1], ys[i+1]) into out. out must hold
// len(xs)-1 values.
func BaseSegmentLengthsSq[T hwy.Floats](xs, ys, out []T) {
	n := min(len(xs), len(ys))
	if n < 2 {
		return
	}
	size := min(n-1, len(out))

	hwy.ProcessWithTail[T](size,
		func(offset int) {
			dx := hwy.Sub(hwy.Load(xs[offset+1:]), hwy.Load(xs[offset:]))
			dy := hwy.Sub(hwy.Load(ys[offset+1:]), hwy.Load(ys[offset:]))
			hwy.Store(hwy.Add(hwy.Mul(dx, dx), hwy.Mul(dy, dy)), out[offset:])
		},
		func(offset, count int) {
			for i := offset; i < offset+count; i++ {
				dx := xs[i+1] - xs[i]
				dy := ys[i+1] - ys[i]
				out[i] = dx*dx + dy*dy
			}
		},
	)
}

// BaseEquirectangularProject maps longitude/latitude (degrees) to local
// planar coordinates around an origin:
// X = (lng - lng0) * kx
// Y = (lat - lat0) * ky
func BaseEquirectangularProject[T hwy.Floats](lngs, lats, xs, ys []T, lng0, lat0, kx, ky T) {
	size := min(len(lngs), len(lats), len(xs), len(ys))

	vLng0 := hwy.Set(lng0)
	vLat0 := hwy.Set(lat0)
	vKx := hwy.Set(kx)
	vKy := hwy.Set(ky)

	hwy.ProcessWithTail[T](size,
		func(offset int) {
			x := hwy.Mul(hwy.Sub(hwy.Load(lngs[offset:]), vLng0), vKx)
			y := hwy.Mul(hwy.Sub(hwy.Load(lats[offset:]), vLat0), vKy)
			hwy.Store(x, xs[offset:])
			hwy.Store(y, ys[offset:])
		},
		func(offset, count int) {
			for i := offset; i < offset+count; i++ {
				xs[i] = (lngs[i] - lng0) * kx
				ys[i] = (lats[i] - lat0) * ky
			}
		},
	)
}
