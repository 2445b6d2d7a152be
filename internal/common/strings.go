package common

// UnknownStr is the String() value of unrecognised enum values.
const UnknownStr = "unknown"
