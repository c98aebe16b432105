// Package term implements component D: the tagged discriminated-variant,
// hash-consed node type. Every node carries its sort, a stable identifier,
// and its abstract value; identity is the interning table's responsibility
// (see the builder package, which owns the table).
package term

// Op is the operator kind, organized by theory per §3.
type Op uint16

const (
	// Boolean
	OpTrue Op = iota
	OpFalse
	OpNot
	OpAnd // n-ary conjunction; Or/Xor/Implies/Iff desugar through this + Not
	OpIte

	// Equality (dispatches on sort at the builder level)
	OpEq

	// Predicates
	OpIntLe
	OpRealLe
	OpBvULt
	OpBvSLt
	OpRealIsInt
	OpBvTestBit

	// Semiring-backed arithmetic (Integer, Real, BV-arith via Sum; BV-xor
	// also rides on Sum). A Sum's variable slots may themselves be Product
	// nodes (monomials).
	OpSum
	OpProduct
	OpIntDiv
	OpIntMod
	OpRealDiv

	// Bitvector
	OpBvConcat
	OpBvExtract // select/slice: payload = {Hi, Lo int}
	OpBvNot
	OpBvAnd
	OpBvOr
	OpBvUdiv
	OpBvUrem
	OpBvSdiv
	OpBvSrem
	OpBvShl
	OpBvLshr
	OpBvAshr
	OpBvRotl
	OpBvRotr
	OpBvZext // payload = extra bits (int)
	OpBvSext // payload = extra bits (int)
	OpBvPopcount
	OpBvClz
	OpBvCtz
	OpBvFill // payload = bool bit value; result width from sort

	// Float
	OpFloatAdd
	OpFloatSub
	OpFloatMul
	OpFloatDiv
	OpFloatSqrt
	OpFloatRem
	OpFloatFma
	OpFloatNeg
	OpFloatAbs
	OpFloatMin
	OpFloatMax
	OpFloatLe
	OpFloatLt
	OpFloatIsNaN
	OpFloatCast // payload = {Eb, Sb uint32}

	// String
	OpStrConcat
	OpStrLen
	OpStrContains
	OpStrIndexOf
	OpStrPrefixOf
	OpStrSuffixOf
	OpStrSubstr

	// Array
	OpArrConst
	OpArrSelect
	OpArrUpdate
	OpArrMap
	OpArrCopy
	OpArrSet
	OpArrRangeEq

	// Struct
	OpStructCtor
	OpStructField // payload = index int

	// Conversions
	OpIntToReal
	OpRealToInt
	OpBvToNat // unsigned BV -> Integer
	OpIntToBv // payload = width uint32

	// Uninterpreted/defined function application, quantifiers, variables
	OpVar // free/bound variable leaf; payload = *VarInfo
	OpApply
	OpForall
	OpExists

	// Annotation: semantically-equal fresh identity
	OpAnnotate
)

var opNames = map[Op]string{
	OpTrue: "true", OpFalse: "false", OpNot: "not", OpAnd: "and", OpIte: "ite",
	OpEq: "eq", OpIntLe: "int.le", OpRealLe: "real.le", OpBvULt: "bv.ult",
	OpBvSLt: "bv.slt", OpRealIsInt: "real.isInt", OpBvTestBit: "bv.testBit",
	OpSum: "sum", OpProduct: "product", OpIntDiv: "int.div", OpIntMod: "int.mod",
	OpRealDiv: "real.div",
	OpBvConcat: "bv.concat", OpBvExtract: "bv.extract", OpBvNot: "bv.not",
	OpBvAnd: "bv.and", OpBvOr: "bv.or", OpBvUdiv: "bv.udiv", OpBvUrem: "bv.urem",
	OpBvSdiv: "bv.sdiv", OpBvSrem: "bv.srem", OpBvShl: "bv.shl", OpBvLshr: "bv.lshr",
	OpBvAshr: "bv.ashr", OpBvRotl: "bv.rotl", OpBvRotr: "bv.rotr", OpBvZext: "bv.zext",
	OpBvSext: "bv.sext", OpBvPopcount: "bv.popcount", OpBvClz: "bv.clz",
	OpBvCtz: "bv.ctz", OpBvFill: "bv.fill",
	OpFloatAdd: "fp.add", OpFloatSub: "fp.sub", OpFloatMul: "fp.mul", OpFloatDiv: "fp.div",
	OpFloatSqrt: "fp.sqrt", OpFloatRem: "fp.rem", OpFloatFma: "fp.fma", OpFloatNeg: "fp.neg",
	OpFloatAbs: "fp.abs", OpFloatMin: "fp.min", OpFloatMax: "fp.max", OpFloatLe: "fp.le",
	OpFloatLt: "fp.lt", OpFloatIsNaN: "fp.isNaN", OpFloatCast: "fp.cast",
	OpStrConcat: "str.concat", OpStrLen: "str.len", OpStrContains: "str.contains",
	OpStrIndexOf: "str.indexOf", OpStrPrefixOf: "str.prefixOf", OpStrSuffixOf: "str.suffixOf",
	OpStrSubstr: "str.substr",
	OpArrConst: "arr.const", OpArrSelect: "arr.select", OpArrUpdate: "arr.update",
	OpArrMap: "arr.map", OpArrCopy: "arr.copy", OpArrSet: "arr.set", OpArrRangeEq: "arr.rangeEq",
	OpStructCtor: "struct.ctor", OpStructField: "struct.field",
	OpIntToReal: "int.toReal", OpRealToInt: "real.toInt", OpBvToNat: "bv.toNat",
	OpIntToBv: "int.toBv",
	OpVar: "var", OpApply: "apply", OpForall: "forall", OpExists: "exists",
	OpAnnotate: "annotate",
}

func (o Op) String() string {
	if n, ok := opNames[o]; ok {
		return n
	}
	return "op?"
}

// Commutative reports whether Op's children should be treated as an
// unordered collection for interning-key and equality purposes.
func (o Op) Commutative() bool {
	switch o {
	case OpAnd, OpSum, OpProduct:
		return true
	default:
		return false
	}
}

// BvExtractPayload is OpBvExtract's payload: bits [Lo, Hi] inclusive.
type BvExtractPayload struct{ Hi, Lo int }

// FloatCastPayload is OpFloatCast's payload.
type FloatCastPayload struct{ Eb, Sb uint32 }

// VarInfo is OpVar's payload.
type VarInfo struct {
	Name  string
	Bound bool // true for a quantifier/function-body bound variable
}
