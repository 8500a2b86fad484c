package enums

import "fmt"

// AddressLabel tags a saved address in the customer's address book.
type AddressLabel string

const (
	AddressLabelHome   AddressLabel = "Home"
	AddressLabelOffice AddressLabel = "Office"
	AddressLabelOther  AddressLabel = "Other"
)

// IsValid reports whether the value is a known AddressLabel.
func (a AddressLabel) IsValid() bool {
	return a == AddressLabelHome || a == AddressLabelOffice || a == AddressLabelOther
}

// ParseAddressLabel converts raw input into an AddressLabel, defaulting to Home.
func ParseAddressLabel(value string) (AddressLabel, error) {
	switch value {
	case "":
		return AddressLabelHome, nil
	case string(AddressLabelHome):
		return AddressLabelHome, nil
	case string(AddressLabelOffice):
		return AddressLabelOffice, nil
	case string(AddressLabelOther):
		return AddressLabelOther, nil
	}
	return "", fmt.Errorf("invalid address label %q", value)
}
