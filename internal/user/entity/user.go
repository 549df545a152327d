package entity

import "time"

// Registration is the sign-up record of a tab (the `registration` key). The
// password is only ever stored hashed.
type Registration struct {
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Country      string    `json:"country"`
	PhoneNumber  string    `json:"phoneNumber"`
	PasswordHash string    `json:"passwordHash"`
	PasswordAlgo string    `json:"passwordAlgo"`
	ReferralCode string    `json:"referralCode,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Address struct {
	City            string `json:"city" validate:"notblank"`
	LocalGovernment string `json:"localGovernment" validate:"notblank"`
	State           string `json:"state" validate:"notblank"`
}

type PersonalInfo struct {
	Gender        string  `json:"gender" validate:"oneof=male female"`
	DateOfBirth   string  `json:"dateOfBirth" validate:"required,datetime=2006-01-02,adult"`
	MaritalStatus string  `json:"maritalStatus" validate:"oneof=single married divorced"`
	Citizenship   string  `json:"citizenship" validate:"notblank"`
	IDType        string  `json:"idType" validate:"oneof=bvn nin"`
	IDNumber      string  `json:"idNumber" validate:"notblank"`
	Address       Address `json:"address"`
}

// TransactionInfo carries the PIN and secret answer in clear only on the way
// in; neither is persisted as submitted.
type TransactionInfo struct {
	TransactionPin        string `json:"transactionPin,omitempty" validate:"len=4,number"`
	ConfirmTransactionPin string `json:"confirmTransactionPin,omitempty" validate:"eqfield=TransactionPin"`
	SecretQuestion        string `json:"secretQuestion" validate:"notblank"`
	SecretAnswer          string `json:"secretAnswer,omitempty" validate:"notblank"`
	SecretAnswerHash      string `json:"secretAnswerHash,omitempty" validate:"-"`
	BankName              string `json:"bankName" validate:"notblank"`
	AccountNumber         string `json:"accountNumber" validate:"len=10,number"`
	AccountName           string `json:"accountName" validate:"notblank"`
	ReinvestReturns       bool   `json:"reinvestReturns"`
}

type EmploymentInfo struct {
	EmploymentStatus   string `json:"employmentStatus" validate:"oneof=employed self-employed not-employed"`
	EmployerName       string `json:"employerName,omitempty"`
	Occupation         string `json:"occupation" validate:"notblank"`
	SourceOfFunds      string `json:"sourceOfFunds" validate:"notblank"`
	PoliticallyExposed bool   `json:"politicallyExposed"`
	PoliticallyRelated bool   `json:"politicallyRelated"`
}

// KYC is the three-step verification record (the `kyc` key). The validate
// tags describe the submitted form; "adult" is checked against the service
// clock.
type KYC struct {
	Personal    PersonalInfo    `json:"personal"`
	Transaction TransactionInfo `json:"transaction"`
	Employment  EmploymentInfo  `json:"employment"`
	SubmittedAt time.Time       `json:"submittedAt"`
}
