package kernel

import "strconv"

// IdentityID is the store-assigned numeric id of an identity. Zero means
// "not assigned yet".
type IdentityID int64

func NewIdentityID(id int64) IdentityID { return IdentityID(id) }
func (i IdentityID) Int64() int64       { return int64(i) }
func (i IdentityID) IsZero() bool       { return int64(i) == 0 }

func (i IdentityID) String() string {
	return strconv.FormatInt(int64(i), 10)
}

// RoleID references a row in the role catalog.
type RoleID int64

// RoleStandardUser is the default role assigned when registration omits one.
const RoleStandardUser RoleID = 2

func (r RoleID) Int64() int64 { return int64(r) }
