package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed scenarios.yaml
var defaultScenarios []byte

// Account roles used by the login and dashboard scenarios.
const (
	RolePrivate     = "private"
	RoleLoyalty     = "loyalty"
	RoleCorporate   = "corporate"
	RoleOTPUser     = "otp_user"
	RoleOTPRejected = "otp_rejected"
)

// Scenarios holds the data the browser scenarios type into the site.
type Scenarios struct {
	Accounts           map[string]string `yaml:"accounts"`
	InvalidLogin       Credentials       `yaml:"invalid_login"`
	OTP                []string          `yaml:"otp"`
	WrongOTP           []string          `yaml:"wrong_otp"`
	SearchHotel        string            `yaml:"search_hotel"`
	DetailHotel        string            `yaml:"detail_hotel"`
	SimilarProperty    string            `yaml:"similar_property"`
	HotelLocation      string            `yaml:"hotel_location"`
	HotelImage         string            `yaml:"hotel_image"`
	RoomDetails        string            `yaml:"room_details"`
	BestDeal           string            `yaml:"best_deal"`
	ConfirmationTempID string            `yaml:"confirmation_temp_id"`
	ShareEmail         string            `yaml:"share_email"`
	SettingsCurrency   string            `yaml:"settings_currency"`
	LevelLabel         string            `yaml:"level_label"`
	HomeTagline        string            `yaml:"home_tagline"`
	SharePrompt        string            `yaml:"share_prompt"`
	TrendingCards      []string          `yaml:"trending_cards"`
	FallbackCard       string            `yaml:"fallback_card"`
	Filters            Filters           `yaml:"filters"`
	Contact            ContactForm       `yaml:"contact"`
	Footer             FooterLinks       `yaml:"footer"`
}

// Credentials is an email/password pair.
type Credentials struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Filters lists the filter options exercised on the results page and the map.
type Filters struct {
	Stars            []int    `yaml:"stars"`
	StarPairs        []int    `yaml:"star_pairs"`
	Amenities        []string `yaml:"amenities"`
	ComfortAmenities []string `yaml:"comfort_amenities"`
	PropertyTypes    []string `yaml:"property_types"`
	MealPlan         string   `yaml:"meal_plan"`
	MapStarSequence  []int    `yaml:"map_star_sequence"`
	MapFacilities    []string `yaml:"map_facilities"`
	MapPropertyTypes []string `yaml:"map_property_types"`
	MapMealPlans     []string `yaml:"map_meal_plans"`
}

// ContactForm is the data submitted through the footer contact form.
type ContactForm struct {
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Email     string `yaml:"email"`
	Phone     string `yaml:"phone"`
	BookingID string `yaml:"booking_id"`
	Subject   string `yaml:"subject"`
	Message   string `yaml:"message"`
}

// FooterLink is a footer link and what its destination must show.
// Heading is matched as a heading role, Text as plain text. With neither set
// the link only has to navigate away.
type FooterLink struct {
	Name    string `yaml:"name"`
	Heading string `yaml:"heading"`
	Text    string `yaml:"text"`
	NewTab  bool   `yaml:"new_tab"`
}

// FooterLinks groups the footer columns.
type FooterLinks struct {
	About       []FooterLink `yaml:"about"`
	Help        []FooterLink `yaml:"help"`
	ForHotels   []FooterLink `yaml:"for_hotels"`
	SocialLinks int          `yaml:"social_links"`
}

// LoadScenarios returns the embedded scenario data, overlaid with the YAML file at
// path when path is non-empty. Fields absent from the file keep their defaults.
func LoadScenarios(path string) (*Scenarios, error) {
	var s Scenarios
	if err := yaml.Unmarshal(defaultScenarios, &s); err != nil {
		return nil, fmt.Errorf("parse embedded scenarios: %w", err)
	}
	if path == "" {
		return &s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenarios: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenarios %s: %w", path, err)
	}
	if len(s.OTP) == 0 {
		return nil, fmt.Errorf("scenarios %s: otp must not be empty", path)
	}
	return &s, nil
}

// Email returns the account email configured for role.
func (s *Scenarios) Email(role string) (string, bool) {
	e, ok := s.Accounts[role]
	return e, ok && e != ""
}
