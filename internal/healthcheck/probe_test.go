package healthcheck_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/microservice/internal/handler"
	"github.com/angeloszaimis/microservice/internal/healthcheck"
)

var _ = Describe("Probe", func() {
	It("should succeed against the service handler", func() {
		srv := httptest.NewServer(handler.NewServiceHandler(handler.ServiceInfo{Name: "demo"}))
		defer srv.Close()

		Expect(healthcheck.Probe(context.Background(), srv.URL, time.Second)).To(Succeed())
	})

	It("should fail on a non-200 status", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		err := healthcheck.Probe(context.Background(), srv.URL, time.Second)
		Expect(err).To(MatchError(ContainSubstring("unexpected status 503")))
	})

	It("should probe the /health path", func() {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
		}))
		defer srv.Close()

		Expect(healthcheck.Probe(context.Background(), srv.URL+"/ignored", time.Second)).To(Succeed())
		Expect(gotPath).To(Equal("/health"))
	})

	It("should fail when nothing is listening", func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		Expect(healthcheck.Probe(context.Background(), url, time.Second)).NotTo(Succeed())
	})

	It("should time out on a slow service", func() {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer srv.Close()
		defer close(release)

		Expect(healthcheck.Probe(context.Background(), srv.URL, 50*time.Millisecond)).NotTo(Succeed())
	})

	It("should reject an unparsable base URL", func() {
		Expect(healthcheck.Probe(context.Background(), "://bad", time.Second)).NotTo(Succeed())
	})

	Describe("LocalURL", func() {
		It("should target the loopback interface", func() {
			Expect(healthcheck.LocalURL(9001)).To(Equal("http://127.0.0.1:9001"))
		})
	})
})
