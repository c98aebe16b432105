package abstract

// BoolValue wraps Tristate so it satisfies Value.
type BoolValue struct {
	T Tristate
}

func TopBool() BoolValue           { return BoolValue{Unknown} }
func SingletonBool(b bool) BoolValue { return BoolValue{TristateOf(b)} }

func (v BoolValue) Join(other Value) Value {
	o, ok := other.(BoolValue)
	if !ok {
		return TopBool()
	}
	return BoolValue{v.T.Join(o.T)}
}

func (v BoolValue) CheckEq(other Value) Tristate {
	o, ok := other.(BoolValue)
	if !ok {
		return Unknown
	}
	return v.T.CheckEq(o.T)
}

func (v BoolValue) IsTop() bool   { return v.T == Unknown }
func (v BoolValue) String() string { return v.T.String() }
