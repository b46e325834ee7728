package group

// SetInviteCodeFunc swaps the invite code generator and returns a func restoring it.
func SetInviteCodeFunc(f func() (string, error)) (restore func()) {
	orig := newInviteCode
	newInviteCode = f
	return func() { newInviteCode = orig }
}
