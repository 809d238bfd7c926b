package api

// Request bodies accepted by the HTTP handlers.

type UsernameRequest struct {
	Username string `json:"username"`
}

type VideoRequest struct {
	Amount int64 `json:"amount"`
}

type ShareRequest struct {
	Platform string `json:"platform"`
}

type ReferralRequest struct {
	Code string `json:"code"`
}

type AmountRequest struct {
	Amount int64 `json:"amount"`
}

type AddressRequest struct {
	Address string `json:"address"`
}

type TermsRequest struct {
	Acknowledged map[string]bool `json:"acknowledged"`
}
