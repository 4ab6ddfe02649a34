package lookback

// HillisSteeleInclusive overwrites a with its inclusive prefix sum, computed
// as the classic Hillis-Steele doubling network: log2(len(a)) rounds, each
// reading the whole array from the previous round before writing the next.
// This is the workgroup-local scan every component in this module builds on
// (segment sums for the scan, bit-split masks and run marks for the radix
// scatter) — a shared helper keeps their shapes identical.
func HillisSteeleInclusive(a []uint32) {
	n := len(a)
	if n < 2 {
		return
	}
	tmp := make([]uint32, n)
	src := a
	for offset := 1; offset < n; offset *= 2 {
		for i := 0; i < n; i++ {
			if i >= offset {
				tmp[i] = src[i] + src[i-offset]
			} else {
				tmp[i] = src[i]
			}
		}
		src, tmp = tmp, src
	}
	if &src[0] != &a[0] {
		copy(a, src)
	}
}
