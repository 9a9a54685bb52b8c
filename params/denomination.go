package params

// Hotpot is the number of base units in one hotpot token. Prices share the
// same scale. Example: to convert whole tokens to base units, use
//
//	new(uint256.Int).Mul(value, uint256.NewInt(params.Hotpot))
const Hotpot = 1e18
