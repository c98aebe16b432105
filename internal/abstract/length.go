package abstract

import "math/big"

// LengthRange is the String abstract domain: an IntRange restricted to
// non-negative integers.
type LengthRange struct {
	IntRange
}

func TopLength() LengthRange {
	return LengthRange{IntRange{Lo: big.NewInt(0)}}
}

func SingletonLength(n int64) LengthRange {
	return LengthRange{SingletonInt(big.NewInt(n))}
}

func (l LengthRange) Join(other Value) Value {
	o, ok := other.(LengthRange)
	if !ok {
		return TopLength()
	}
	return LengthRange{l.IntRange.Join(o.IntRange).(IntRange)}
}

func (l LengthRange) CheckEq(other Value) Tristate {
	o, ok := other.(LengthRange)
	if !ok {
		return Unknown
	}
	// Equal lengths do not make two strings equal, so only disjoint
	// length ranges decide anything.
	if !l.IntRange.Overlap(o.IntRange) {
		return False
	}
	return Unknown
}

// Concat implements length(s ++ t) = length(s) + length(t).
func Concat(a, b LengthRange) LengthRange {
	return LengthRange{a.IntRange.Add(b.IntRange)}
}

// Substring implements length(substring(s,off,n)) = intersect([0,n],
// [0, length(s)-off]) clamped at 0.
func Substring(s LengthRange, off, n *big.Int) LengthRange {
	hiFromN := new(big.Int).Set(n)
	if hiFromN.Sign() < 0 {
		hiFromN.SetInt64(0)
	}
	var hiFromLen *big.Int
	if s.Hi != nil {
		hiFromLen = new(big.Int).Sub(s.Hi, off)
		if hiFromLen.Sign() < 0 {
			hiFromLen.SetInt64(0)
		}
	}
	hi := hiFromN
	if hiFromLen != nil && hiFromLen.Cmp(hi) < 0 {
		hi = hiFromLen
	}
	return LengthRange{IntRange{Lo: big.NewInt(0), Hi: hi}}
}
