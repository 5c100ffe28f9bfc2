// Package franklinwh provides a client for the FranklinWH cloud API used by
// aPower home energy storage installations.
//
// Features:
// - Credential login (TokenProvider) and gateway-scoped typed endpoint methods.
// - Strongly typed results mirroring the vendor's JSON field names exactly.
// - A four-way error taxonomy (authentication, network, vendor, parse) so
//   callers can decide whether to re-authenticate, retry, or abort.
//
// The library never retries and never refreshes tokens on its own: control
// endpoints act on a physical device, so retry and re-authentication decisions
// belong to the caller.
package franklinwh
