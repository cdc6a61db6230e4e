package resources

import (
	"strings"
)

// Category groups safety resources by the kind of help they provide
type Category = string

const (
	CategoryHotline    Category = "hotline"
	CategoryShelter    Category = "shelter"
	CategoryLegal      Category = "legal"
	CategoryMedical    Category = "medical"
	CategoryCounseling Category = "counseling"
)

// Resource is a safety service a user can reach out to. The directory is
// baked into the binary; there is no admin surface to mutate it.
type Resource struct {
	ID          string   `json:"id"`
	Category    Category `json:"category"`
	Name        string   `json:"name"`
	Phone       string   `json:"phone,omitempty"`
	URL         string   `json:"url,omitempty"`
	Description string   `json:"description,omitempty"`
	Region      string   `json:"region,omitempty"`
	Available   string   `json:"available,omitempty"`
}

var categories = map[Category]bool{
	CategoryHotline:    true,
	CategoryShelter:    true,
	CategoryLegal:      true,
	CategoryMedical:    true,
	CategoryCounseling: true,
}

// ValidCategory reports whether the category is part of the directory.
func ValidCategory(category Category) bool {
	return categories[strings.ToLower(strings.TrimSpace(category))]
}

var directory = []Resource{
	{
		ID:          "national-dv-hotline",
		Category:    CategoryHotline,
		Name:        "National Domestic Violence Hotline",
		Phone:       "1-800-799-7233",
		URL:         "https://www.thehotline.org",
		Description: "Confidential support for anyone experiencing domestic violence.",
		Region:      "US",
		Available:   "24/7",
	},
	{
		ID:          "crisis-text-line",
		Category:    CategoryHotline,
		Name:        "Crisis Text Line",
		Phone:       "Text HOME to 741741",
		URL:         "https://www.crisistextline.org",
		Description: "Free crisis counseling over text message.",
		Region:      "US",
		Available:   "24/7",
	},
	{
		ID:          "rainn-hotline",
		Category:    CategoryHotline,
		Name:        "RAINN National Sexual Assault Hotline",
		Phone:       "1-800-656-4673",
		URL:         "https://www.rainn.org",
		Description: "Support for survivors of sexual assault and their loved ones.",
		Region:      "US",
		Available:   "24/7",
	},
	{
		ID:          "safe-horizon-shelters",
		Category:    CategoryShelter,
		Name:        "Safe Horizon Shelter Network",
		Phone:       "1-800-621-4673",
		URL:         "https://www.safehorizon.org",
		Description: "Emergency shelter placement for people fleeing violence.",
		Region:      "US",
		Available:   "24/7",
	},
	{
		ID:          "womens-law",
		Category:    CategoryLegal,
		Name:        "WomensLaw Legal Information",
		URL:         "https://www.womenslaw.org",
		Description: "Plain-language legal information on protective orders.",
		Region:      "US",
	},
	{
		ID:          "victim-connect",
		Category:    CategoryLegal,
		Name:        "VictimConnect Resource Center",
		Phone:       "1-855-484-2846",
		URL:         "https://victimconnect.org",
		Description: "Referrals for victims of crime, including legal aid.",
		Region:      "US",
	},
	{
		ID:          "samhsa-treatment",
		Category:    CategoryMedical,
		Name:        "SAMHSA Treatment Locator",
		Phone:       "1-800-662-4357",
		URL:         "https://findtreatment.samhsa.gov",
		Description: "Locator for mental health and substance use treatment.",
		Region:      "US",
		Available:   "24/7",
	},
	{
		ID:          "988-lifeline",
		Category:    CategoryCounseling,
		Name:        "988 Suicide & Crisis Lifeline",
		Phone:       "988",
		URL:         "https://988lifeline.org",
		Description: "Free and confidential crisis counseling.",
		Region:      "US",
		Available:   "24/7",
	},
	{
		ID:          "open-path-counseling",
		Category:    CategoryCounseling,
		Name:        "Open Path Psychotherapy Collective",
		URL:         "https://openpathcollective.org",
		Description: "Affordable in-person and online counseling sessions.",
		Region:      "US",
	},
}

// All returns the full directory.
func All() []Resource {
	out := make([]Resource, len(directory))
	copy(out, directory)
	return out
}

// ByCategory filters the directory. Unknown categories return an empty
// slice; callers validate first with ValidCategory.
func ByCategory(category Category) []Resource {
	category = strings.ToLower(strings.TrimSpace(category))
	out := make([]Resource, 0, len(directory))
	for _, r := range directory {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}
