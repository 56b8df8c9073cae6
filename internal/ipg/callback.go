package ipg

import "net/url"

const (
	// StatusParam is the query parameter the gateway return URLs carry.
	StatusParam = "ipg_stat"
	KeyParam    = "key"

	StatSuccess = "1"
	StatFail    = "0"
)

type Flag int

const (
	FlagAbsent Flag = iota
	FlagSuccess
	FlagFail
)

func (f Flag) String() string {
	switch f {
	case FlagSuccess:
		return "success"
	case FlagFail:
		return "fail"
	default:
		return "absent"
	}
}

// CallbackResult is what one inbound return redirect claims.
type CallbackResult struct {
	OrderID  string
	OrderKey string
	Flag     Flag
}

// ParseFlag reads ipg_stat. Only "1" counts as success; any other value
// that is present is a failure.
func ParseFlag(query url.Values) Flag {
	if !query.Has(StatusParam) {
		return FlagAbsent
	}
	if query.Get(StatusParam) == StatSuccess {
		return FlagSuccess
	}
	return FlagFail
}

func ParseCallback(orderID string, query url.Values) CallbackResult {
	return CallbackResult{
		OrderID:  orderID,
		OrderKey: query.Get(KeyParam),
		Flag:     ParseFlag(query),
	}
}
