package api

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	wordSize int
	baseReg  string
	emitter  Emitter
}

func NewDriverBuilder() DriverBuilder {
	return DriverBuilder{
		wordSize: 2,
		baseReg:  "bp",
	}
}

// WithWordSize sets the slot size in bytes.
func (b DriverBuilder) WithWordSize(wordSize int) DriverBuilder {
	b.wordSize = wordSize
	return b
}

// WithBaseRegister sets the base register of composed location
// expressions.
func (b DriverBuilder) WithBaseRegister(baseReg string) DriverBuilder {
	b.baseReg = baseReg
	return b
}

// WithEmitter routes the final output to the given emitter after every
// successful Run.
func (b DriverBuilder) WithEmitter(emitter Emitter) DriverBuilder {
	b.emitter = emitter
	return b
}

// Build create a driver.
func (b DriverBuilder) Build(name string) Driver {
	return &driverImpl{
		name:     name,
		wordSize: b.wordSize,
		baseReg:  b.baseReg,
		emitter:  b.emitter,
	}
}
