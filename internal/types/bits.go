package types

const (
	Bit0  = 1 << iota // 0b0000_0000_0000_0001
	Bit1              // 0b0000_0000_0000_0010
	Bit2              // 0b0000_0000_0000_0100
	Bit3              // 0b0000_0000_0000_1000
	Bit4              // 0b0000_0000_0001_0000
	Bit5              // 0b0000_0000_0010_0000
	Bit6              // 0b0000_0000_0100_0000
	Bit7              // 0b0000_0000_1000_0000
	Bit8              // 0b0000_0001_0000_0000
	Bit9              // 0b0000_0010_0000_0000
	Bit10             // 0b0000_0100_0000_0000
	Bit11             // 0b0000_1000_0000_0000
	Bit12             // 0b0001_0000_0000_0000
	Bit13             // 0b0010_0000_0000_0000
	Bit14             // 0b0100_0000_0000_0000
	Bit15             // 0b1000_0000_0000_0000
)
