package auth_test

import (
	"time"

	"github.com/adiwarna/identity-admin/internal"
	"github.com/adiwarna/identity-admin/internal/auth"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TOTP", func() {
	// RFC 6238 appendix B test vector, base32 of "12345678901234567890"
	const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

	Describe("GenerateTOTP", func() {
		It("should reproduce the RFC 6238 SHA-1 reference codes", func() {
			code, err := auth.GenerateTOTP(rfcSecret, time.Unix(59, 0))
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal("287082"))

			code, err = auth.GenerateTOTP(rfcSecret, time.Unix(1111111109, 0))
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal("081804"))

			code, err = auth.GenerateTOTP(rfcSecret, time.Unix(1234567890, 0))
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal("005924"))
		})

		It("should reject a malformed secret", func() {
			_, err := auth.GenerateTOTP("not base32!!", time.Now())
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ValidateTOTP", func() {
		It("should accept the current code", func() {
			now := time.Unix(1111111109, 0)
			Expect(auth.ValidateTOTP(rfcSecret, "081804", now)).To(BeTrue())
		})

		It("should accept codes one period either side", func() {
			now := time.Unix(1111111109, 0)

			previous, err := auth.GenerateTOTP(rfcSecret, now.Add(-30*time.Second))
			Expect(err).NotTo(HaveOccurred())
			Expect(auth.ValidateTOTP(rfcSecret, previous, now)).To(BeTrue())

			next, err := auth.GenerateTOTP(rfcSecret, now.Add(30*time.Second))
			Expect(err).NotTo(HaveOccurred())
			Expect(auth.ValidateTOTP(rfcSecret, next, now)).To(BeTrue())
		})

		It("should reject codes outside the skew window", func() {
			now := time.Unix(1111111109, 0)
			stale, err := auth.GenerateTOTP(rfcSecret, now.Add(-5*time.Minute))
			Expect(err).NotTo(HaveOccurred())
			Expect(auth.ValidateTOTP(rfcSecret, stale, now)).To(BeFalse())
		})

		It("should reject codes of the wrong length", func() {
			Expect(auth.ValidateTOTP(rfcSecret, "12345", time.Now())).To(BeFalse())
			Expect(auth.ValidateTOTP(rfcSecret, "1234567", time.Now())).To(BeFalse())
		})
	})

	Describe("GenerateTOTPSecret", func() {
		It("should produce distinct base32 secrets", func() {
			first, err := auth.GenerateTOTPSecret()
			Expect(err).NotTo(HaveOccurred())
			second, err := auth.GenerateTOTPSecret()
			Expect(err).NotTo(HaveOccurred())
			Expect(first).NotTo(Equal(second))
			Expect(first).To(MatchRegexp(`^[A-Z2-7]+$`))
		})
	})

	Describe("TOTPProvisioningURL", func() {
		It("should embed issuer, account and secret", func() {
			url := auth.TOTPProvisioningURL("identity-admin", "admin@acme.test", "SECRET234")
			Expect(url).To(HavePrefix("otpauth://totp/identity-admin:"))
			Expect(url).To(ContainSubstring("secret=SECRET234"))
			Expect(url).To(ContainSubstring("issuer=identity-admin"))
		})
	})
})

var _ = Describe("JWTTokenGenerator", func() {
	var tokens *auth.JWTTokenGenerator

	BeforeEach(func() {
		tokens = auth.NewJWTTokenGenerator(
			"access-secret-need-not-be-short-here",
			"refresh-secret-need-not-be-short-xx",
		)
	})

	It("should round-trip access token claims", func() {
		token, err := tokens.GenerateAccessToken("42", "admin@acme.test")
		Expect(err).NotTo(HaveOccurred())

		claims, err := tokens.ValidateAccessToken(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.UserID).To(Equal("42"))
		Expect(claims.Email).To(Equal("admin@acme.test"))
		Expect(claims.Scope).To(Equal(auth.ScopeAccess))
	})

	It("should keep scopes apart", func() {
		refresh, err := tokens.GenerateRefreshToken("42", "admin@acme.test")
		Expect(err).NotTo(HaveOccurred())
		_, err = tokens.ValidateAccessToken(refresh)
		Expect(err).To(Equal(internal.ErrInvalidToken))

		mfa, err := tokens.GenerateMFAToken("42", "admin@acme.test")
		Expect(err).NotTo(HaveOccurred())
		_, err = tokens.ValidateAccessToken(mfa)
		Expect(err).To(Equal(internal.ErrInvalidToken))

		claims, err := tokens.ValidateMFAToken(mfa)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.Scope).To(Equal(auth.ScopeMFA))
	})

	It("should reject an expired token", func() {
		tokens.AccessTokenTTL = -time.Minute
		token, err := tokens.GenerateAccessToken("42", "admin@acme.test")
		Expect(err).NotTo(HaveOccurred())

		_, err = tokens.ValidateAccessToken(token)
		Expect(err).To(Equal(internal.ErrTokenExpired))
	})

	It("should reject a token signed with another secret", func() {
		other := auth.NewJWTTokenGenerator(
			"a-completely-different-access-secret",
			"a-completely-different-refresh-sec",
		)
		token, err := other.GenerateAccessToken("42", "admin@acme.test")
		Expect(err).NotTo(HaveOccurred())

		_, err = tokens.ValidateAccessToken(token)
		Expect(err).To(Equal(internal.ErrInvalidToken))
	})

	It("should reject garbage", func() {
		_, err := tokens.ValidateAccessToken("not-a-jwt")
		Expect(err).To(Equal(internal.ErrInvalidToken))
	})
})
