// Package vault is the only interface the rest of profilevault uses to
// protect profile data at rest.
//
// A Service combines the keystore and the envelope codec:
//   - Protect: seal a plaintext under the current key (created on first use)
//   - Reveal: open an envelope, failing with ErrUnreadable instead of ever
//     handing back the input
//   - Rotate: replace the key and re-seal the plaintext the caller holds
//   - Destroy: remove marker, envelope and key together
//
// Commit and Load persist and fetch the envelope with its presence marker.
//
// State, from the caller's perspective:
//
//	Uninitialized --Protect+Commit--> Sealed
//	Sealed --Reveal ok--> Sealed
//	Sealed --Reveal fails--> Unreadable (caller discards or reports)
//	Sealed --Rotate--> Sealed
//	any --Destroy--> Uninitialized
//
// Operations on one Service are serialized. Separate processes sharing a
// store are not coordinated.
package vault
