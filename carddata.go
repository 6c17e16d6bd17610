package bizcard

import (
	"strconv"

	json "github.com/goccy/go-json"
)

// Field fallbacks applied by [Normalize].
const (
	DefaultName        = "Admin"
	DefaultEmail       = "user@example.com"
	DefaultPhone       = "+91 00000 00000"
	DefaultWebsite     = "example.com"
	DefaultCompanyName = "Your Company"
	DefaultAddress     = "Hotel Seven Seas, Al-Nahada-1, Dubai"
)

// nullLiteral is how some upstream records spell a missing value.
const nullLiteral = "null"

// OptString is a string field of a fetched record. A missing key, a JSON
// null and the literal string "null" are all absent. The empty string is
// present.
type OptString struct {
	value string
	set   bool
}

// Some returns a present OptString holding s.
func Some(s string) OptString {
	return OptString{value: s, set: true}
}

// Present reports whether the field carries a usable value.
func (o OptString) Present() bool {
	return o.set && o.value != nullLiteral
}

// Or returns the value, or fallback when the field is absent.
func (o OptString) Or(fallback string) string {
	if !o.Present() {
		return fallback
	}
	return o.value
}

// UnmarshalJSON accepts strings, numbers and booleans. Non-string scalars
// keep their JSON text, so numeric ids decode as "42".
func (o *OptString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = OptString{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*o = Some(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*o = Some(n.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	*o = Some(strconv.FormatBool(b))
	return nil
}

// MarshalJSON writes absent values as null.
func (o OptString) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// AgentRecord is the staff member returned by the fetch collaborator.
type AgentRecord struct {
	ID      OptString `json:"id"`
	Name    OptString `json:"name"`
	Email   OptString `json:"email"`
	Phone   OptString `json:"phone"`
	JobType OptString `json:"job_type"`
	Address OptString `json:"address"`
}

// CompanyRecord holds the company settings of the logged-in user.
type CompanyRecord struct {
	CompanyName    OptString `json:"company_name"`
	CompanyLogoURL OptString `json:"company_logo_url"`
	CRMURL         OptString `json:"crm_url"`
	Website        OptString `json:"website"`
	Address        OptString `json:"address"`
}

// AllData is the subset of the current-user payload the card needs.
type AllData struct {
	CompanySettings *CompanyRecord `json:"company_settings"`
}

// CardData is the normalized record every renderer consumes. After
// [Normalize] no field holds "null".
type CardData struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Website        string `json:"website"`
	CompanyName    string `json:"company_name"`
	CompanyLogoURL string `json:"company_logo_url"`
	JobType        string `json:"job_type"`
	Address        string `json:"address"`
	ThemeColor     string `json:"themeColor"`
}

// cardDataJSON mirrors CardData with optional fields, so decoding can tell
// a missing key or null apart from an empty string.
type cardDataJSON struct {
	ID             OptString `json:"id"`
	Name           OptString `json:"name"`
	Email          OptString `json:"email"`
	Phone          OptString `json:"phone"`
	Website        OptString `json:"website"`
	CompanyName    OptString `json:"company_name"`
	CompanyLogoURL OptString `json:"company_logo_url"`
	JobType        OptString `json:"job_type"`
	Address        OptString `json:"address"`
	ThemeColor     OptString `json:"themeColor"`
}

// UnmarshalJSON decodes a CardData and applies the fallback table to every
// missing, null or "null" field. An absent theme color stays empty so the
// caller can supply one before [CardData.Normalize] picks the default.
func (d *CardData) UnmarshalJSON(data []byte) error {
	var raw cardDataJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = CardData{
		ID:             raw.ID.Or(""),
		Name:           raw.Name.Or(DefaultName),
		Email:          raw.Email.Or(DefaultEmail),
		Phone:          raw.Phone.Or(DefaultPhone),
		Website:        raw.Website.Or(DefaultWebsite),
		CompanyName:    raw.CompanyName.Or(DefaultCompanyName),
		CompanyLogoURL: raw.CompanyLogoURL.Or(""),
		JobType:        raw.JobType.Or(""),
		Address:        raw.Address.Or(DefaultAddress),
		ThemeColor:     raw.ThemeColor.Or(""),
	}
	return nil
}

// NormalizeInput bundles the records merged into one [CardData]. Nil records
// are treated as empty.
type NormalizeInput struct {
	UserID     string
	Agent      *AgentRecord
	Company    *CompanyRecord
	ThemeColor string
}

// Normalize merges an agent and a company record, applying the documented
// fallback for every absent field. Website prefers the CRM URL over the
// company website, and address prefers the company address over the agent's.
func Normalize(in NormalizeInput) CardData {
	agent := in.Agent
	if agent == nil {
		agent = &AgentRecord{}
	}
	company := in.Company
	if company == nil {
		company = &CompanyRecord{}
	}

	id := in.UserID
	if id == "" {
		id = agent.ID.Or("")
	}

	return CardData{
		ID:             id,
		Name:           agent.Name.Or(DefaultName),
		Email:          agent.Email.Or(DefaultEmail),
		Phone:          agent.Phone.Or(DefaultPhone),
		Website:        firstPresent(DefaultWebsite, company.CRMURL, company.Website),
		CompanyName:    company.CompanyName.Or(DefaultCompanyName),
		CompanyLogoURL: company.CompanyLogoURL.Or(""),
		JobType:        agent.JobType.Or(""),
		Address:        firstPresent(DefaultAddress, company.Address, agent.Address),
		ThemeColor:     themeOrDefault(in.ThemeColor),
	}
}

// Normalize re-applies the fallback table to an existing record. It is
// idempotent: a normalized record is returned unchanged.
func (d CardData) Normalize() CardData {
	fix := func(v, fallback string) string {
		if v == nullLiteral {
			return fallback
		}
		return v
	}
	return CardData{
		ID:             fix(d.ID, ""),
		Name:           fix(d.Name, DefaultName),
		Email:          fix(d.Email, DefaultEmail),
		Phone:          fix(d.Phone, DefaultPhone),
		Website:        fix(d.Website, DefaultWebsite),
		CompanyName:    fix(d.CompanyName, DefaultCompanyName),
		CompanyLogoURL: fix(d.CompanyLogoURL, ""),
		JobType:        fix(d.JobType, ""),
		Address:        fix(d.Address, DefaultAddress),
		ThemeColor:     themeOrDefault(d.ThemeColor),
	}
}

// Validate checks the fields renderers cannot recover from.
func (d CardData) Validate() error {
	_, err := ParseHex(d.ThemeColor)
	return err
}

func firstPresent(fallback string, fields ...OptString) string {
	for _, f := range fields {
		if f.Present() {
			return f.value
		}
	}
	return fallback
}

func themeOrDefault(c string) string {
	if c == "" || c == nullLiteral {
		return DefaultThemeColor
	}
	return c
}
