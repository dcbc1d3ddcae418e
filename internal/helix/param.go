package helix

// Param indexes the helix parameters.
type Param uint8

const (
	D0 Param = iota
	Phi0
	Omega
	Dz
	TanDip
)

// NumParams is the number of helix parameters.
const NumParams = 5

// Params lists every parameter in storage order.
var Params = [NumParams]Param{D0, Phi0, Omega, Dz, TanDip}

var paramNames = [NumParams]string{"d0", "phi0", "omega", "dz", "tanDip"}

func (Param) Dim() int { return NumParams }

func (p Param) String() string {
	if int(p) < NumParams {
		return paramNames[p]
	}
	return "invalid"
}

// ParseParam maps a parameter name back to its index.
func ParseParam(name string) (Param, bool) {
	for i, n := range paramNames {
		if n == name {
			return Param(i), true
		}
	}
	return 0, false
}
