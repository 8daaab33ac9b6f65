package constraints

// Signed is any signed integer type.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type Integer interface {
	Signed | Unsigned
}

type Float interface {
	~float32 | ~float64
}

// Numeric is any integer or floating-point type.
type Numeric interface {
	Integer | Float
}

// Ordered is any type that supports the ordering operators.
type Ordered interface {
	Integer | Float | ~string
}
