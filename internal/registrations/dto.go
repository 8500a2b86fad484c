package registrations

// CreateInput captures a new wholesale buyer application.
type CreateInput struct {
	FirmName        string
	ShopName        string
	State           string
	City            string
	Zip             string
	OTPMobile       string
	Whatsapp        string
	Password        string
	VisitingCardURL string
}

// UpdateInput carries the self-service editable profile fields. Nil means
// leave the field untouched.
type UpdateInput struct {
	FirmName        *string
	ShopName        *string
	State           *string
	City            *string
	Zip             *string
	OTPMobile       *string
	Whatsapp        *string
	VisitingCardURL *string
}
