package validation

var (
	allowedVolumes       = []string{"under_10k", "10k_50k", "50k_200k", "200k_1m", "over_1m"}
	allowedPresence      = []string{"yes", "no"}
	allowedCountries     = []string{"mexico", "brazil", "argentina", "colombia"}
	allowedServices      = []string{"legal", "tax", "logistics", "marketing", "imports", "research"}
	allowedTimelines     = []string{"immediately", "short_term", "medium_term", "exploring"}
	allowedBusinessTypes = []string{"ecommerce", "brand", "distributor", "other"}
	allowedMinSizes      = []string{"no_min", "10k", "50k", "200k"}
	allowedLanguages     = []string{"english", "spanish", "portuguese", "chinese", "other"}
	allowedCapacities    = []string{"immediately", "one_month", "limited"}
)

const (
	maxNameLength        = 200
	maxEmailLength       = 320
	maxOptionalLength    = 500
	maxCredentialsLength = 2000
	maxSetItems          = 20
)
