// Package dapr provides thin HTTP clients for the Dapr sidecar building
// blocks the service uses: pub/sub publishing, the alpha jobs API, the
// secrets API, and service invocation.
//
// The sidecar is addressed over plain HTTP on localhost; the broker behind
// the pubsub component is deliberately invisible to this package. All calls
// run under a bounded timeout, and the publish/jobs surfaces degrade to a
// false return instead of an error when the sidecar is unreachable, so the
// service keeps working in local setups without a sidecar.
package dapr
