package domain

// KeyPrefix namespaces every storage key written by the engine.
const KeyPrefix = "arbiter:"
