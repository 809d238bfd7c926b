package services

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"

	"dripn/internal/models"

	"github.com/samber/do"
)

const referralAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateReferralCode returns PREFIX-XXXXXX with a random base-36 suffix.
func GenerateReferralCode(prefix string) (string, error) {
	max := big.NewInt(int64(len(referralAlphabet)))
	suffix := make([]byte, REFERRAL_SUFFIX_LENGTH)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		suffix[i] = referralAlphabet[n.Int64()]
	}
	return prefix + "-" + string(suffix), nil
}

func NormalizeReferralCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidReferralCode is the structural check only: prefix and minimum length.
func ValidReferralCode(prefix string, code string) bool {
	return strings.HasPrefix(code, prefix+"-") && len(code) >= len(prefix)+1+REFERRAL_SUFFIX_LENGTH
}

type ServiceReferral struct {
	container *do.Injector
	state     *ServiceState
	settings  *Settings
	sync      *ServiceSync
}

func NewServiceReferral(container *do.Injector) (*ServiceReferral, error) {
	state, err := do.Invoke[*ServiceState](container)
	if err != nil {
		return nil, err
	}

	settings, err := do.Invoke[*Settings](container)
	if err != nil {
		return nil, err
	}

	sync, err := do.Invoke[*ServiceSync](container)
	if err != nil {
		return nil, err
	}

	return &ServiceReferral{container, state, settings, sync}, nil
}

func (service *ServiceReferral) Referral() (*models.ReferralState, error) {
	state, err := service.state.View()
	if err != nil {
		return nil, err
	}
	return &state.Referral, nil
}

// EnterCode links this install to a referrer. It returns false without any
// change when a code was already entered, when the code is our own, or when
// it is malformed. Bonus crediting happens on the backend.
func (service *ServiceReferral) EnterCode(ctx context.Context, code string) (bool, error) {
	code = NormalizeReferralCode(code)

	var accepted bool
	err := service.state.Update(ctx, func(state *models.State) error {
		referral := &state.Referral
		if referral.EnteredCode != nil {
			return errNoChange
		}
		if code == referral.OwnCode {
			return errNoChange
		}
		if !ValidReferralCode(service.settings.ReferralPrefix, code) {
			return errNoChange
		}

		now := service.state.Now()
		referral.EnteredCode = &code
		referral.EnteredAt = &now
		accepted = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if accepted {
		service.sync.PushAsync(ctx)
	}
	return accepted, nil
}
