package common

// CredentialCacheKey is the reserved local-cache key holding the auth token.
// It is excluded from entity enumeration.
const CredentialCacheKey = "token"
