package kernel

import "strconv"

// AccountID is the durable identifier of an account.
type AccountID int64

func NewAccountID(id int64) AccountID { return AccountID(id) }
func (a AccountID) Int64() int64     { return int64(a) }
func (a AccountID) IsZero() bool     { return a == 0 }
func (a AccountID) String() string   { return strconv.FormatInt(int64(a), 10) }

// ParseAccountID parses the decimal form produced by String.
func ParseAccountID(s string) (AccountID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return AccountID(n), nil
}
