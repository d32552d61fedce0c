// Package geo decides whether free text places a posting in the target
// geography (Israel) and extracts best-effort location strings. The token
// tables are deliberately recall-generous: a foreign posting that mentions
// the country is an acceptable false positive, a local posting with no
// country token is rejected.
package geo

import (
	"regexp"
	"strings"

	"github.com/sells-group/jobscout/internal/textutil"
)

// targetTokens covers the country name in both languages, major cities in
// both scripts, and remote/hybrid qualifier phrases. All lowercase.
var targetTokens = []string{
	"israel", "ישראל",
	"tel aviv", "תל אביב", "gush dan", "גוש דן", "ramat gan", "רמת גן",
	"givatayim", "גבעתיים", "bnei brak", "בני ברק", "herzliya", "הרצליה",
	"kfar saba", "כפר סבא", "raanana", "רעננה", "hod hasharon", "הוד השרון",
	"petah tikva", "פתח תקווה", "rishon lezion", "ראשון לציון",
	"holon", "חולון", "bat yam", "בת ים", "rehovot", "רחובות",
	"modiin", "מודיעין", "ashdod", "אשדוד", "netanya", "נתניה",
	"haifa", "חיפה", "kiryat", "קריית", "karmiel", "כרמיאל",
	"nahariya", "נהריה", "hadera", "חדרה", "zichron", "זכרון",
	"yokneam", "יקנעם", "nesher", "נשר",
	"beer sheva", "באר שבע", "ashkelon", "אשקלון", "dimona", "דימונה",
	"sderot", "שדרות", "jerusalem", "ירושלים", "maale adumim", "מעלה אדומים",
	"beit shemesh", "בית שמש",
	"remote israel", "remote in israel", "hybrid israel",
	"היברידי ישראל", "עבודה מרחוק בישראל",
}

// cityNames is the display-cased city list used to build location strings
// and to infer a city from a search query.
var cityNames = []string{
	"Tel Aviv", "Jerusalem", "Haifa", "Beer Sheva", "Herzliya", "Ramat Gan",
	"Givatayim", "Petah Tikva", "Rishon Lezion", "Rehovot", "Netanya",
	"Holon", "Ashdod", "Ashkelon", "Hadera", "Modiin", "Kfar Saba",
	"Raanana", "Yokneam", "Beit Shemesh",
	"תל אביב", "ירושלים", "חיפה", "באר שבע", "הרצליה", "רמת גן", "גבעתיים",
	"פתח תקווה", "ראשון לציון", "רחובות", "נתניה", "חולון", "אשדוד",
	"אשקלון", "חדרה", "מודיעין", "כפר סבא", "רעננה", "יקנעם", "בית שמש",
}

// locBlockRe matches "City, Israel" / "City, Region, Israel" blocks.
var locBlockRe = regexp.MustCompile(`(?i)([A-Za-z ]+,\s*(?:[A-Za-z ]+,\s*)?Israel)`)

// Matches reports whether any target-geography token occurs in the text,
// case-insensitively, as a substring.
func Matches(text string) bool {
	if text == "" {
		return false
	}
	t := strings.ToLower(text)
	for _, tok := range targetTokens {
		if strings.Contains(t, tok) {
			return true
		}
	}
	return false
}

// MatchesAny reports whether any of the texts matches the target geography.
func MatchesAny(texts ...string) bool {
	for _, t := range texts {
		if Matches(t) {
			return true
		}
	}
	return false
}

// LocationFromTexts scans texts in order for a usable location string:
// first a "City, Israel" block, then a bare city token (suffixed with the
// country when the text mentions it). Returns "" when nothing matches.
func LocationFromTexts(texts ...string) string {
	for _, t := range texts {
		if t == "" {
			continue
		}
		norm := textutil.Normalize(t)
		if m := locBlockRe.FindStringSubmatch(norm); m != nil {
			return strings.TrimSpace(m[1])
		}
		lower := strings.ToLower(norm)
		for _, city := range cityNames {
			if !strings.Contains(lower, strings.ToLower(city)) {
				continue
			}
			if strings.Contains(lower, "israel") || strings.Contains(norm, "ישראל") {
				// Country suffix follows the city's script, not the
				// surrounding text's.
				if city[0] < 0x80 {
					return city + ", Israel"
				}
				return city + ", ישראל"
			}
			return city
		}
	}
	return ""
}

// CityFromQuery infers a city from a search query string, falling back to
// the bare country when only the country is named.
func CityFromQuery(query string) string {
	q := strings.ToLower(query)
	for _, city := range cityNames {
		if strings.Contains(q, strings.ToLower(city)) {
			return city
		}
	}
	if strings.Contains(q, "israel") || strings.Contains(q, "ישראל") {
		return "Israel"
	}
	return ""
}

// ShortCity reduces a location string to its leading city token, the
// city_hint column consumed by the dashboard.
func ShortCity(location string) string {
	s := strings.TrimSpace(strings.ReplaceAll(location, "•", " "))
	if i := strings.Index(s, ","); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

// CityTerms returns the quoted English city names used for search query
// fan-out.
func CityTerms() []string {
	terms := make([]string, 0, 20)
	for _, city := range cityNames {
		if city[0] < 0x80 { // ASCII names only; Hebrew cities ride on the country queries
			terms = append(terms, `"`+city+`"`)
		}
	}
	return terms
}
