package auth

// Access policy. Pure functions over the actor descriptor so every rule is
// testable without HTTP or storage.

// CanView reports whether the actor may read records belonging to targetUserID.
// Staff (admin, moderator) see everyone; a plain user only itself.
func CanView(actor Actor, targetUserID int64) bool {
	if actor.IsStaff() {
		return true
	}
	return actor.ID == targetUserID
}

// CanMutate reports whether the actor may edit or delete a time track owned by
// ownerID. Content mutation is the owner's sole prerogative and ends
// permanently once the entry is paid; staff roles grant no exception.
func CanMutate(actor Actor, ownerID int64, wasPaid bool) bool {
	return actor.ID == ownerID && !wasPaid
}

// CanManageUsers covers create/edit/delete of user accounts.
func CanManageUsers(actor Actor) bool {
	return actor.IsAdmin()
}

// CanViewRoster covers read-only access to the staff list.
func CanViewRoster(actor Actor) bool {
	return actor.IsStaff()
}

func CanSetRates(actor Actor) bool {
	return actor.IsAdmin()
}

// CanMarkPaid is admin-only. Moderators see payment analytics but the
// server-side rule keeps the actual transition restricted to admin.
func CanMarkPaid(actor Actor) bool {
	return actor.IsAdmin()
}
