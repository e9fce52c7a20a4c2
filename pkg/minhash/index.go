package minhash

import (
	"encoding/binary"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/cespare/xxhash/v2"
	"gonum.org/v1/gonum/integrate"
)

// Index is an LSH-banded near-duplicate index with a greedy streaming
// retention policy: signatures are admitted in input order, and a signature
// is rejected iff an already-kept neighbor shares a band bucket and matches
// at or above the similarity threshold. Rejected signatures are still
// indexed so later arrivals can collide with them. The resulting relation
// is neither transitive nor symmetric; the first member of a cluster wins.
//
// Not safe for concurrent use: insertion order is the retention order.
type Index struct {
	threshold   float64
	bands       int
	rowsPerBand int

	buckets    []map[uint64]*roaring.Bitmap
	kept       *roaring.Bitmap
	signatures [][]uint64
}

// NewIndex creates an index for p-slot signatures at the given similarity
// threshold. Band and row counts are derived from (threshold, p) by
// minimizing the false-positive/false-negative probability integrals.
func NewIndex(threshold float64, permutations int) *Index {
	bands, rows := optimalBands(threshold, permutations)
	buckets := make([]map[uint64]*roaring.Bitmap, bands)
	for i := range buckets {
		buckets[i] = make(map[uint64]*roaring.Bitmap)
	}
	return &Index{
		threshold:   threshold,
		bands:       bands,
		rowsPerBand: rows,
		buckets:     buckets,
		kept:        roaring.New(),
	}
}

// Bands returns the derived band count.
func (x *Index) Bands() int { return x.bands }

// RowsPerBand returns the derived rows per band.
func (x *Index) RowsPerBand() int { return x.rowsPerBand }

// Admit inserts the next signature in stream order and reports whether its
// record is retained. A nil signature never collides and is always kept.
func (x *Index) Admit(sig []uint64) bool {
	id := uint32(len(x.signatures))
	keep := true

	if len(sig) > 0 {
		candidates := x.candidates(sig)
		candidates.And(x.kept)

		it := candidates.Iterator()
		for it.HasNext() {
			neighbor := it.Next()
			if Similarity(sig, x.signatures[neighbor]) >= x.threshold {
				keep = false
				break
			}
		}
	}

	x.insert(id, sig)
	if keep {
		x.kept.Add(id)
	}
	return keep
}

// candidates unions the band buckets the signature hashes into.
func (x *Index) candidates(sig []uint64) *roaring.Bitmap {
	out := roaring.New()
	for band := 0; band < x.bands; band++ {
		start := band * x.rowsPerBand
		end := start + x.rowsPerBand
		if end > len(sig) {
			end = len(sig)
		}
		if start >= end {
			break
		}
		if bucket, ok := x.buckets[band][hashBand(sig[start:end], uint64(band))]; ok {
			out.Or(bucket)
		}
	}
	return out
}

// insert registers the signature in every band bucket.
func (x *Index) insert(id uint32, sig []uint64) {
	x.signatures = append(x.signatures, sig)
	if len(sig) == 0 {
		return
	}
	for band := 0; band < x.bands; band++ {
		start := band * x.rowsPerBand
		end := start + x.rowsPerBand
		if end > len(sig) {
			end = len(sig)
		}
		if start >= end {
			break
		}
		key := hashBand(sig[start:end], uint64(band))
		bucket, ok := x.buckets[band][key]
		if !ok {
			bucket = roaring.New()
			x.buckets[band][key] = bucket
		}
		bucket.Add(id)
	}
}

// hashBand digests one band slice with xxhash, seeded by the band number
// so identical rows in different bands land in distinct buckets.
func hashBand(values []uint64, seed uint64) uint64 {
	var d xxhash.Digest
	d.Reset()

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], seed)
	d.Write(buf[:])
	for _, v := range values {
		binary.LittleEndian.PutUint64(buf[:], v)
		d.Write(buf[:])
	}
	return d.Sum64()
}

// integrationSamples controls the resolution of the band-parameter search.
const integrationSamples = 200

// optimalBands searches (bands, rows) pairs with bands*rows <= p for the
// combination minimizing equal-weighted false-positive and false-negative
// probability mass around the threshold.
func optimalBands(threshold float64, permutations int) (bands, rows int) {
	if permutations < 1 {
		return 1, 1
	}
	bestErr := -1.0
	bands, rows = 1, permutations

	for b := 1; b <= permutations; b++ {
		maxR := permutations / b
		for r := 1; r <= maxR; r++ {
			fp := collisionMass(0, threshold, b, r)
			fn := probabilityMass(threshold, 1, b, r)
			if err := fp + fn; bestErr < 0 || err < bestErr {
				bestErr = err
				bands, rows = b, r
			}
		}
	}
	return bands, rows
}

// collisionMass integrates the banding collision probability 1-(1-s^r)^b
// over [lo, hi].
func collisionMass(lo, hi float64, b, r int) float64 {
	return bandingIntegral(lo, hi, b, r, false)
}

// probabilityMass integrates the miss probability (1-s^r)^b over [lo, hi].
func probabilityMass(lo, hi float64, b, r int) float64 {
	return bandingIntegral(lo, hi, b, r, true)
}

func bandingIntegral(lo, hi float64, b, r int, miss bool) float64 {
	xs := make([]float64, integrationSamples+1)
	ys := make([]float64, integrationSamples+1)
	step := (hi - lo) / integrationSamples
	for i := 0; i <= integrationSamples; i++ {
		s := lo + float64(i)*step
		p := missProb(s, b, r)
		if !miss {
			p = 1 - p
		}
		xs[i] = s
		ys[i] = p
	}
	return integrate.Trapezoidal(xs, ys)
}

// missProb is the probability that two signatures with Jaccard similarity
// s share no band bucket: (1 - s^r)^b.
func missProb(s float64, b, r int) float64 {
	sr := 1.0
	for i := 0; i < r; i++ {
		sr *= s
	}
	inner := 1 - sr
	out := 1.0
	for i := 0; i < b; i++ {
		out *= inner
	}
	return out
}
