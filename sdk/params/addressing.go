package params

// Kind tells which MIDI addressing schemes a parameter supports.
type Kind int

const (
	NoAddressing Kind = iota
	CCOnly
	NRPNOnly
	CCAndNRPN
)

func (k Kind) String() string {
	switch k {
	case CCOnly:
		return "cc"
	case NRPNOnly:
		return "nrpn"
	case CCAndNRPN:
		return "cc+nrpn"
	default:
		return "none"
	}
}

// CCAddress is a controller number, optionally paired with an LSB controller
// for 14-bit values.
type CCAddress struct {
	MSB    int
	LSB    int
	HasLSB bool
}

// HighRes reports whether the address is a MSB/LSB controller pair.
func (a CCAddress) HighRes() bool { return a.HasLSB }

// NRPNAddress is the parameter number carried by CC99/CC98.
type NRPNAddress struct {
	MSB int
	LSB int
}

// Number returns the 14-bit parameter number.
func (a NRPNAddress) Number() int { return a.MSB<<7 | a.LSB }

// Addressing is a tagged variant over CCAddress and NRPNAddress. The zero
// value has no addressing.
type Addressing struct {
	kind Kind
	cc   CCAddress
	nrpn NRPNAddress
}

// CC addresses a parameter by controller number only.
func CC(cc int) Addressing {
	return Addressing{kind: CCOnly, cc: CCAddress{MSB: cc}}
}

// HighResCC addresses a parameter by an MSB/LSB controller pair.
func HighResCC(msb, lsb int) Addressing {
	return Addressing{kind: CCOnly, cc: CCAddress{MSB: msb, LSB: lsb, HasLSB: true}}
}

// NRPN addresses a parameter by NRPN number only.
func NRPN(msb, lsb int) Addressing {
	return Addressing{kind: NRPNOnly, nrpn: NRPNAddress{MSB: msb, LSB: lsb}}
}

// Both addresses a parameter that answers to both a controller and an NRPN.
func Both(cc, msb, lsb int) Addressing {
	return Addressing{kind: CCAndNRPN, cc: CCAddress{MSB: cc}, nrpn: NRPNAddress{MSB: msb, LSB: lsb}}
}

// Kind returns the variant tag.
func (a Addressing) Kind() Kind { return a.kind }

// CC returns the controller address when the variant carries one.
func (a Addressing) CC() (CCAddress, bool) {
	if a.kind == CCOnly || a.kind == CCAndNRPN {
		return a.cc, true
	}
	return CCAddress{}, false
}

// NRPN returns the NRPN address when the variant carries one.
func (a Addressing) NRPN() (NRPNAddress, bool) {
	if a.kind == NRPNOnly || a.kind == CCAndNRPN {
		return a.nrpn, true
	}
	return NRPNAddress{}, false
}
