package auth

import "errors"

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (dto LoginDTO) Validate() error {
	if dto.Email == "" {
		return errors.New("email is required")
	}
	if dto.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (dto RefreshTokenDTO) Validate() error {
	if dto.RefreshToken == "" {
		return errors.New("refresh_token is required")
	}
	return nil
}

// VerifyTOTPDTO completes an MFA challenge with an authenticator app code.
type VerifyTOTPDTO struct {
	MFAToken string `json:"mfa_token"`
	Code     string `json:"code"`
}

func (dto VerifyTOTPDTO) Validate() error {
	if dto.MFAToken == "" {
		return errors.New("mfa_token is required")
	}
	if dto.Code == "" {
		return errors.New("code is required")
	}
	return nil
}

// RequestEmailOTPDTO asks for a one-time code to be mailed out for a pending
// MFA challenge.
type RequestEmailOTPDTO struct {
	MFAToken string `json:"mfa_token"`
}

func (dto RequestEmailOTPDTO) Validate() error {
	if dto.MFAToken == "" {
		return errors.New("mfa_token is required")
	}
	return nil
}

// VerifyEmailOTPDTO completes an MFA challenge with a mailed one-time code.
type VerifyEmailOTPDTO struct {
	MFAToken    string `json:"mfa_token"`
	ChallengeID string `json:"challenge_id"`
	Code        string `json:"code"`
}

func (dto VerifyEmailOTPDTO) Validate() error {
	if dto.MFAToken == "" {
		return errors.New("mfa_token is required")
	}
	if dto.ChallengeID == "" {
		return errors.New("challenge_id is required")
	}
	if dto.Code == "" {
		return errors.New("code is required")
	}
	return nil
}

// ActivateTOTPDTO finishes authenticator enrollment by proving the client
// holds the provisioned secret.
type ActivateTOTPDTO struct {
	Code string `json:"code"`
}

func (dto ActivateTOTPDTO) Validate() error {
	if dto.Code == "" {
		return errors.New("code is required")
	}
	return nil
}

// EnrollTOTPResponse carries the provisioned secret back to the client once.
type EnrollTOTPResponse struct {
	Secret          string `json:"secret"`
	ProvisioningURL string `json:"provisioning_url"`
}

// EmailOTPChallengeResponse identifies an issued email code.
type EmailOTPChallengeResponse struct {
	ChallengeID string `json:"challenge_id"`
}
