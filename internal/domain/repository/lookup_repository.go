package repository

import "context"

// LookupRepository resolves external natural keys to internal surrogate
// ids via bulk queries against the already-loaded reference tables.
// Missing keys are silently omitted from the result map; an empty key set
// returns an empty map without querying.
type LookupRepository interface {
	// BulkCrewIDs matches trimmed "first last" names against the crew
	// reference table.
	BulkCrewIDs(ctx context.Context, names []string) (map[string]int, error)

	// BulkAircraftIDs matches tail numbers exactly.
	BulkAircraftIDs(ctx context.Context, tailNumbers []string) (map[string]int, error)

	// BulkAirportIDs matches upper-cased ICAO codes. IATA codes are not
	// accepted on this path.
	BulkAirportIDs(ctx context.Context, icaoCodes []string) (map[string]int, error)

	// AirportIDByCode is the single-record path used outside the bulk
	// flight pipeline; it accepts ICAO or IATA. Returns (0, false) when
	// the code does not resolve.
	AirportIDByCode(ctx context.Context, code string) (int, bool, error)
}
