package model

// Version is the blobdeps release (overridden with -ldflags "-X blobdeps/internal/model.Version=...").
var Version = "0.3.0"
