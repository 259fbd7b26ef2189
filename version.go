package hottopoteto

// Version is the release version, overridden at build time via ldflags.
var Version = "0.4.0"
