// Package instance resolves the identity of the running backend instance:
// hostname, IP address, and the id/color labels used to tell instances apart
// behind a load balancer.
package instance
