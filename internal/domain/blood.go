package domain

type BloodType string

const (
	BloodAPositive  BloodType = "A+"
	BloodANegative  BloodType = "A-"
	BloodBPositive  BloodType = "B+"
	BloodBNegative  BloodType = "B-"
	BloodABPositive BloodType = "AB+"
	BloodABNegative BloodType = "AB-"
	BloodOPositive  BloodType = "O+"
	BloodONegative  BloodType = "O-"
)

// BloodTypes lists the eight canonical ABO/Rh types.
var BloodTypes = []BloodType{
	BloodAPositive, BloodANegative,
	BloodBPositive, BloodBNegative,
	BloodABPositive, BloodABNegative,
	BloodOPositive, BloodONegative,
}

// compatibleDonors maps a recipient blood type to the donor types that can
// serve it. This is the single authoritative table; both donor search and the
// request service go through it.
var compatibleDonors = map[BloodType][]BloodType{
	BloodAPositive:  {BloodAPositive, BloodANegative, BloodOPositive, BloodONegative},
	BloodANegative:  {BloodANegative, BloodONegative},
	BloodBPositive:  {BloodBPositive, BloodBNegative, BloodOPositive, BloodONegative},
	BloodBNegative:  {BloodBNegative, BloodONegative},
	BloodABPositive: {BloodAPositive, BloodANegative, BloodBPositive, BloodBNegative, BloodABPositive, BloodABNegative, BloodOPositive, BloodONegative},
	BloodABNegative: {BloodANegative, BloodBNegative, BloodABNegative, BloodONegative},
	BloodOPositive:  {BloodOPositive, BloodONegative},
	BloodONegative:  {BloodONegative},
}

// IsValid reports whether t is one of the eight canonical types.
func (t BloodType) IsValid() bool {
	_, ok := compatibleDonors[t]
	return ok
}

// CompatibleDonorTypes returns the donor types that can serve the given
// recipient type. Unknown input yields an empty slice, not an error; callers
// treat it as "no matches".
func CompatibleDonorTypes(recipient BloodType) []BloodType {
	donors := compatibleDonors[recipient]
	out := make([]BloodType, len(donors))
	copy(out, donors)
	return out
}

// CanDonateTo returns the recipient types the given donor type can serve.
// Derived from the same table as CompatibleDonorTypes.
func CanDonateTo(donor BloodType) []BloodType {
	var out []BloodType
	for _, recipient := range BloodTypes {
		for _, d := range compatibleDonors[recipient] {
			if d == donor {
				out = append(out, recipient)
				break
			}
		}
	}
	return out
}
