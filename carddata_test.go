package bizcard

import (
	"testing"

	json "github.com/goccy/go-json"
)

func defaultCard() CardData {
	return CardData{
		Name:        DefaultName,
		Email:       DefaultEmail,
		Phone:       DefaultPhone,
		Website:     DefaultWebsite,
		CompanyName: DefaultCompanyName,
		Address:     DefaultAddress,
		ThemeColor:  DefaultThemeColor,
	}
}

func TestNormalize_AllDefaults(t *testing.T) {
	got := Normalize(NormalizeInput{})
	if got != defaultCard() {
		t.Errorf("Normalize(empty) = %+v, want %+v", got, defaultCard())
	}

	got = Normalize(NormalizeInput{Agent: &AgentRecord{}, Company: &CompanyRecord{}})
	if got != defaultCard() {
		t.Errorf("Normalize(empty records) = %+v, want %+v", got, defaultCard())
	}
}

func TestNormalize_NullLiteralIsAbsent(t *testing.T) {
	null := Some("null")
	in := NormalizeInput{
		Agent: &AgentRecord{
			ID: null, Name: null, Email: null, Phone: null, JobType: null, Address: null,
		},
		Company: &CompanyRecord{
			CompanyName: null, CompanyLogoURL: null, CRMURL: null, Website: null, Address: null,
		},
		ThemeColor: "null",
	}
	if got := Normalize(in); got != defaultCard() {
		t.Errorf("Normalize(all \"null\") = %+v, want %+v", got, defaultCard())
	}
}

func TestNormalize_Precedence(t *testing.T) {
	tests := []struct {
		name        string
		agent       AgentRecord
		company     CompanyRecord
		wantWebsite string
		wantAddress string
	}{
		{
			name:        "crm url wins",
			company:     CompanyRecord{CRMURL: Some("crm.acme.com"), Website: Some("acme.com")},
			wantWebsite: "crm.acme.com",
			wantAddress: DefaultAddress,
		},
		{
			name:        "website when crm is null",
			company:     CompanyRecord{CRMURL: Some("null"), Website: Some("acme.com")},
			wantWebsite: "acme.com",
			wantAddress: DefaultAddress,
		},
		{
			name:        "company address wins",
			agent:       AgentRecord{Address: Some("Agent St 1")},
			company:     CompanyRecord{Address: Some("Company Ave 2")},
			wantWebsite: DefaultWebsite,
			wantAddress: "Company Ave 2",
		},
		{
			name:        "agent address fallback",
			agent:       AgentRecord{Address: Some("Agent St 1")},
			wantWebsite: DefaultWebsite,
			wantAddress: "Agent St 1",
		},
		{
			name:        "empty crm url is an override",
			company:     CompanyRecord{CRMURL: Some(""), Website: Some("acme.com")},
			wantWebsite: "",
			wantAddress: DefaultAddress,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(NormalizeInput{Agent: &tt.agent, Company: &tt.company})
			if got.Website != tt.wantWebsite {
				t.Errorf("Website = %q, want %q", got.Website, tt.wantWebsite)
			}
			if got.Address != tt.wantAddress {
				t.Errorf("Address = %q, want %q", got.Address, tt.wantAddress)
			}
		})
	}
}

func TestNormalize_EmptyStringPassesThrough(t *testing.T) {
	got := Normalize(NormalizeInput{Agent: &AgentRecord{Phone: Some(""), Email: Some("")}})
	if got.Phone != "" || got.Email != "" {
		t.Errorf("Phone, Email = %q, %q, want empty", got.Phone, got.Email)
	}
}

func TestNormalize_UserID(t *testing.T) {
	agent := &AgentRecord{ID: Some("7")}
	if got := Normalize(NormalizeInput{UserID: "42", Agent: agent}).ID; got != "42" {
		t.Errorf("ID = %q, want 42", got)
	}
	if got := Normalize(NormalizeInput{Agent: agent}).ID; got != "7" {
		t.Errorf("ID = %q, want 7", got)
	}
}

func TestCardDataNormalize_Idempotent(t *testing.T) {
	records := []CardData{
		defaultCard(),
		Normalize(NormalizeInput{
			UserID:     "42",
			Agent:      &AgentRecord{Name: Some("Jane Doe"), Phone: Some(""), JobType: Some("Broker")},
			Company:    &CompanyRecord{CompanyName: Some("Acme Realty"), CompanyLogoURL: Some("https://cdn.acme.com/logo.png")},
			ThemeColor: "#0f766e",
		}),
	}
	for _, d := range records {
		once := d.Normalize()
		if once != d {
			t.Errorf("Normalize(%+v) = %+v, want unchanged", d, once)
		}
		if twice := once.Normalize(); twice != once {
			t.Errorf("second Normalize changed %+v to %+v", once, twice)
		}
	}
}

func TestCardDataNormalize_ReplacesNull(t *testing.T) {
	d := CardData{Name: "null", Website: "null", ThemeColor: "null", JobType: "null"}.Normalize()
	if d.Name != DefaultName || d.Website != DefaultWebsite || d.ThemeColor != DefaultThemeColor || d.JobType != "" {
		t.Errorf("Normalize() = %+v", d)
	}
}

func TestOptString_JSON(t *testing.T) {
	var rec AgentRecord
	data := `{"id": 42, "name": "Jane", "email": null, "phone": "", "job_type": "null", "address": true}`
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		t.Fatal(err)
	}
	checks := []struct {
		field   string
		got     OptString
		present bool
		value   string
	}{
		{"id", rec.ID, true, "42"},
		{"name", rec.Name, true, "Jane"},
		{"email", rec.Email, false, "fallback"},
		{"phone", rec.Phone, true, ""},
		{"job_type", rec.JobType, false, "fallback"},
		{"address", rec.Address, true, "true"},
	}
	for _, c := range checks {
		if c.got.Present() != c.present {
			t.Errorf("%s: Present() = %v, want %v", c.field, c.got.Present(), c.present)
		}
		if v := c.got.Or("fallback"); v != c.value {
			t.Errorf("%s: Or() = %q, want %q", c.field, v, c.value)
		}
	}

	out, err := json.Marshal(AgentRecord{Name: Some("Jane")})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":null,"name":"Jane","email":null,"phone":null,"job_type":null,"address":null}`
	if string(out) != want {
		t.Errorf("Marshal = %s, want %s", out, want)
	}
}

func TestAllData_JSON(t *testing.T) {
	var all AllData
	data := `{"user": {"id": 1}, "company_settings": {"company_name": "Acme", "crm_url": "crm.acme.com"}}`
	if err := json.Unmarshal([]byte(data), &all); err != nil {
		t.Fatal(err)
	}
	if all.CompanySettings == nil {
		t.Fatal("CompanySettings = nil")
	}
	if got := all.CompanySettings.CompanyName.Or(""); got != "Acme" {
		t.Errorf("CompanyName = %q", got)
	}
}

func TestCardData_UnmarshalJSON(t *testing.T) {
	var d CardData
	data := `{"name": "Ann", "email": null, "phone": "", "job_type": "null", "company_name": "Acme"}`
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		t.Fatal(err)
	}
	want := CardData{
		Name:        "Ann",
		Email:       DefaultEmail,
		Website:     DefaultWebsite,
		CompanyName: "Acme",
		Address:     DefaultAddress,
	}
	if d != want {
		t.Errorf("Unmarshal = %+v, want %+v", d, want)
	}

	// Absent theme colors are left for the caller; Normalize fills them.
	if got := d.Normalize().ThemeColor; got != DefaultThemeColor {
		t.Errorf("ThemeColor after Normalize = %q", got)
	}

	f, err := Render(d, Back, Modern)
	if err != nil {
		t.Fatal(err)
	}
	assertText(t, f, RoleEmail, DefaultEmail)
	if f.Has(RolePhone) {
		t.Error("an explicitly empty phone still renders a row")
	}
}

func TestCardData_UnmarshalJSON_RoundTrip(t *testing.T) {
	in := defaultCard()
	in.Phone = ""
	out, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var got CardData
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	if got != in {
		t.Errorf("round trip = %+v, want %+v", got, in)
	}
}

func TestValidate(t *testing.T) {
	if err := defaultCard().Validate(); err != nil {
		t.Errorf("Validate(default) = %v", err)
	}
	d := defaultCard()
	d.ThemeColor = "#abc"
	if err := d.Validate(); err == nil {
		t.Error("Validate accepted #abc")
	}
}
