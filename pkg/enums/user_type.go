package enums

// UserType distinguishes shop operators from buyers.
type UserType string

const (
	UserTypeShop  UserType = "shop"
	UserTypeBuyer UserType = "buyer"
)

func (t UserType) IsValid() bool {
	switch t {
	case UserTypeShop, UserTypeBuyer:
		return true
	}
	return false
}

func (t UserType) String() string {
	return string(t)
}
