package instance_test

import (
	"context"
	"errors"
	"net"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/lb-demo-backend/internal/instance"
)

func TestInstance(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Instance Suite")
}

var _ = Describe("Provider", func() {
	var provider *instance.Provider

	BeforeEach(func() {
		provider = instance.NewProvider("backend-1", "#ff0000")
	})

	Describe("Hostname", func() {
		It("returns the host name without resolving", func() {
			hostname, err := os.Hostname()
			Expect(err).NotTo(HaveOccurred())
			Expect(provider.Hostname()).To(Equal(hostname))
		})
	})

	Describe("Info", func() {
		It("echoes the configured labels verbatim", func() {
			info, err := provider.Info(context.Background())
			if err != nil {
				// Hosts without a resolvable name fail with a typed error.
				var resErr *instance.ResolutionError
				Expect(errors.As(err, &resErr)).To(BeTrue())
				return
			}

			Expect(info.InstanceID).To(Equal("backend-1"))
			Expect(info.InstanceColor).To(Equal("#ff0000"))
		})

		It("resolves hostname to a parseable address", func() {
			info, err := provider.Info(context.Background())
			if err != nil {
				Skip("hostname does not resolve in this environment")
			}

			Expect(info.Hostname).NotTo(BeEmpty())
			Expect(net.ParseIP(info.IPAddress)).NotTo(BeNil())
		})
	})

	Describe("Network", func() {
		It("always reports a hostname and fqdn, degrading instead of failing", func() {
			network := provider.Network(context.Background())
			Expect(network.Hostname).NotTo(BeEmpty())
			Expect(network.FQDN).NotTo(BeEmpty())
		})
	})
})

var _ = Describe("ResolutionError", func() {
	It("includes the failing operation and wraps the cause", func() {
		cause := errors.New("no such host")
		err := &instance.ResolutionError{Op: "lookup backend-1", Err: cause}

		Expect(err.Error()).To(ContainSubstring("lookup backend-1"))
		Expect(errors.Unwrap(err)).To(Equal(cause))
	})
})
