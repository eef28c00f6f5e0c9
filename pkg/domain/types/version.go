package types

// Version is overwritten at build time with -ldflags "-X ..."
var Version = "dev"

// ServiceName is used in logs, health responses and posted artifacts
const ServiceName = "sheepdog"
