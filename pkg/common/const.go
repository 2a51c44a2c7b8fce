package common

const (
	// KeyLastPrice caches the most recent quote per symbol.
	KeyLastPrice = "last_price:%s"
)
