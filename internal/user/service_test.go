package user

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/kv"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/session"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/user/repo"
)

var today = time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*UserService, *userrepo.UserRepo, *kv.Memory) {
	t.Helper()
	mem := kv.NewMemory()
	r := userrepo.NewUserRepo(mem)
	return NewUserService(r, BcryptHasher{Cost: bcrypt.MinCost}, clockwork.NewFakeClockAt(today)), r, mem
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		FirstName:       "Alex",
		LastName:        "Johnson",
		Email:           "Alex@Example.com",
		Country:         "Nigeria",
		PhoneNumber:     "+234 812 345 6789",
		Password:        "Secur3!pass",
		ConfirmPassword: "Secur3!pass",
	}
}

func validKYC() entity.KYC {
	return entity.KYC{
		Personal: entity.PersonalInfo{
			Gender:        "female",
			DateOfBirth:   "1990-04-12",
			MaritalStatus: "single",
			Citizenship:   "Nigerian",
			IDType:        "bvn",
			IDNumber:      "22233344455",
			Address:       entity.Address{City: "Ikeja", LocalGovernment: "Ikeja", State: "Lagos"},
		},
		Transaction: entity.TransactionInfo{
			TransactionPin:        "4321",
			ConfirmTransactionPin: "4321",
			SecretQuestion:        "First pet?",
			SecretAnswer:          "Rex",
			BankName:              "Zenith Bank",
			AccountNumber:         "0123456789",
			AccountName:           "Alex Johnson",
			ReinvestReturns:       true,
		},
		Employment: entity.EmploymentInfo{
			EmploymentStatus: "employed",
			Occupation:       "Engineer",
			SourceOfFunds:    "Salary",
		},
	}
}

func TestValidateRegistration(t *testing.T) {
	svc, _, _ := newService(t)
	require.NoError(t, svc.ValidateRegistration(validRegistration()))

	cases := map[string]func(*RegisterRequest){
		"short first name":   func(r *RegisterRequest) { r.FirstName = "Al" },
		"long last name":     func(r *RegisterRequest) { r.LastName = strings.Repeat("x", 51) },
		"bad email":          func(r *RegisterRequest) { r.Email = "alex@" },
		"no country":         func(r *RegisterRequest) { r.Country = " " },
		"short phone":        func(r *RegisterRequest) { r.PhoneNumber = "123" },
		"short password":     func(r *RegisterRequest) { r.Password, r.ConfirmPassword = "S3!a", "S3!a" },
		"long password":      func(r *RegisterRequest) { r.Password = "Secur3!pass" + strings.Repeat("a", 10); r.ConfirmPassword = r.Password },
		"no upper":           func(r *RegisterRequest) { r.Password, r.ConfirmPassword = "secur3!pass", "secur3!pass" },
		"no lower":           func(r *RegisterRequest) { r.Password, r.ConfirmPassword = "SECUR3!PASS", "SECUR3!PASS" },
		"no digit":           func(r *RegisterRequest) { r.Password, r.ConfirmPassword = "Secure!pass", "Secure!pass" },
		"no special":         func(r *RegisterRequest) { r.Password, r.ConfirmPassword = "Secur3pass", "Secur3pass" },
		"confirmation drift": func(r *RegisterRequest) { r.ConfirmPassword = "Secur3!pasS" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validRegistration()
			mutate(&req)
			err := svc.ValidateRegistration(req)
			require.ErrorIs(t, err, ErrInvalidRegistration)
			reason, ok := session.ReasonOf(err)
			require.True(t, ok)
			assert.Equal(t, RejectInvalidRegistration, reason)
		})
	}
}

func TestRegister_StoresHashedPassword(t *testing.T) {
	svc, r, _ := newService(t)
	ctx := context.Background()

	next, err := svc.Register(ctx, "tab", validRegistration())
	require.NoError(t, err)
	assert.Equal(t, RouteKYC, next)

	reg, err := r.GetRegistration(ctx, "tab")
	require.NoError(t, err)
	assert.Equal(t, "alex@example.com", reg.Email)
	assert.NotEqual(t, "Secur3!pass", reg.PasswordHash)
	assert.True(t, BcryptHasher{}.Verify(reg.PasswordHash, "Secur3!pass"))
	assert.Equal(t, "bcrypt:4", reg.PasswordAlgo)
	assert.Equal(t, today, reg.CreatedAt)
}

func TestSubmitKYC_RequiresRegistration(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.SubmitKYC(context.Background(), "tab", validKYC())
	require.ErrorIs(t, err, ErrRegistrationMissing)
}

func TestValidateKYC(t *testing.T) {
	svc, _, _ := newService(t)
	require.NoError(t, svc.ValidateKYC(validKYC()))

	cases := map[string]func(*entity.KYC){
		"gender":          func(k *entity.KYC) { k.Personal.Gender = "other" },
		"marital":         func(k *entity.KYC) { k.Personal.MaritalStatus = "widowed" },
		"id type":         func(k *entity.KYC) { k.Personal.IDType = "passport" },
		"address":         func(k *entity.KYC) { k.Personal.Address.State = "" },
		"blank city":      func(k *entity.KYC) { k.Personal.Address.City = "   " },
		"dob format":      func(k *entity.KYC) { k.Personal.DateOfBirth = "12/04/1990" },
		"under 18":        func(k *entity.KYC) { k.Personal.DateOfBirth = "2008-10-16" },
		"pin length":      func(k *entity.KYC) { k.Transaction.TransactionPin = "123" },
		"pin digits":      func(k *entity.KYC) { k.Transaction.TransactionPin, k.Transaction.ConfirmTransactionPin = "12a4", "12a4" },
		"pin mismatch":    func(k *entity.KYC) { k.Transaction.ConfirmTransactionPin = "1234" },
		"secret answer":   func(k *entity.KYC) { k.Transaction.SecretAnswer = "" },
		"account number":  func(k *entity.KYC) { k.Transaction.AccountNumber = "12345" },
		"employment":      func(k *entity.KYC) { k.Employment.EmploymentStatus = "retired" },
		"source of funds": func(k *entity.KYC) { k.Employment.SourceOfFunds = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			k := validKYC()
			mutate(&k)
			require.ErrorIs(t, svc.ValidateKYC(k), ErrInvalidKYC)
		})
	}

	k := validKYC()
	k.Personal.DateOfBirth = "2008-10-15"
	assert.NoError(t, svc.ValidateKYC(k), "eighteenth birthday today")

	k.Personal.DateOfBirth = "2008-10-16"
	err := svc.ValidateKYC(k)
	require.ErrorIs(t, err, ErrInvalidKYC)
	assert.Contains(t, err.Error(), "you must be at least 18 years old")
}

func TestSubmitKYC_HashesSecrets(t *testing.T) {
	svc, r, mem := newService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "tab", validRegistration())
	require.NoError(t, err)

	next, err := svc.SubmitKYC(ctx, "tab", validKYC())
	require.NoError(t, err)
	assert.Equal(t, RouteLogin, next)

	k, err := r.GetKYC(ctx, "tab")
	require.NoError(t, err)
	assert.Empty(t, k.Transaction.TransactionPin)
	assert.Empty(t, k.Transaction.SecretAnswer)
	assert.True(t, BcryptHasher{}.Verify(k.Transaction.SecretAnswerHash, "rex"))
	assert.Equal(t, today, k.SubmittedAt)

	raw, err := mem.Get(ctx, "tab", userrepo.KeyKYC)
	require.NoError(t, err)
	assert.NotContains(t, raw, "4321")

	pin, err := r.GetPINHash(ctx, "tab")
	require.NoError(t, err)
	assert.True(t, BcryptHasher{}.Verify(pin, "4321"))
}

func TestHandler_RegisterThenKYC(t *testing.T) {
	svc, _, _ := newService(t)
	h := NewHandler(svc, zap.NewNop().Sugar())
	tab := auth.Principal{SID: "tab", Token: "fresh"}

	do := func(fn http.HandlerFunc, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req = req.WithContext(auth.WithPrincipal(req.Context(), tab))
		rec := httptest.NewRecorder()
		fn(rec, req)
		return rec
	}

	rec := do(h.Register, `{"firstName":"Al"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"invalid_registration"`)
	assert.Contains(t, rec.Body.String(), `"detail":"firstName must be at least 3 characters"`)

	rec = do(h.Register, `{"firstName":"Alex","lastName":"Johnson","email":"alex@example.com","country":"Nigeria","phoneNumber":"08123456789","password":"Secur3!pass","confirmPassword":"Secur3!pass"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"next":"/kyc","token":"fresh"}`, rec.Body.String())

	rec = do(h.SubmitKYC, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
