package httpserver_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/microservice/internal/httpserver"
	"github.com/angeloszaimis/microservice/pkg/logger"
)

var _ = Describe("HTTP Server", func() {
	noop := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	Context("server creation", func() {
		It("creates server with valid address", func() {
			srv, err := httpserver.New("localhost:9999", noop, logger.Discard())
			Expect(err).NotTo(HaveOccurred())
			Expect(srv).NotTo(BeNil())
		})

		It("creates server on all interfaces", func() {
			srv, err := httpserver.New("0.0.0.0:8000", noop, logger.Discard())
			Expect(err).NotTo(HaveOccurred())
			Expect(srv.Addr()).To(Equal("0.0.0.0:8000"))
		})

		It("handles port-only address", func() {
			srv, err := httpserver.New(":9999", noop, logger.Discard())
			Expect(err).NotTo(HaveOccurred())
			Expect(srv).NotTo(BeNil())
		})

		It("rejects invalid address", func() {
			srv, err := httpserver.New("invalid:host:port", noop, logger.Discard())
			Expect(err).To(HaveOccurred())
			Expect(srv).To(BeNil())
		})
	})

	Context("server lifecycle", func() {
		var testServer *httpserver.Server

		BeforeEach(func() {
			testServer = nil
		})

		AfterEach(func() {
			if testServer != nil {
				_ = testServer.Shutdown(context.Background(), time.Second)
			}
		})

		It("binds, serves and reports the bound address", func() {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("test"))
			})
			var err error
			testServer, err = httpserver.New("127.0.0.1:0", handler, logger.Discard())
			Expect(err).NotTo(HaveOccurred())
			Expect(testServer.Listen()).To(Succeed())

			go testServer.Serve()

			resp, err := http.Get("http://" + testServer.Addr())
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			body, _ := io.ReadAll(resp.Body)
			Expect(string(body)).To(Equal("test"))
		})

		It("fails to bind a port already in use", func() {
			occupied, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).NotTo(HaveOccurred())
			defer occupied.Close()

			srv, err := httpserver.New(occupied.Addr().String(), noop, logger.Discard())
			Expect(err).NotTo(HaveOccurred())
			Expect(srv.Listen()).NotTo(Succeed())
		})

		It("releases an unserved socket on Close", func() {
			srv, err := httpserver.New("127.0.0.1:0", noop, logger.Discard())
			Expect(err).NotTo(HaveOccurred())
			Expect(srv.Listen()).To(Succeed())
			addr := srv.Addr()

			Expect(srv.Close()).To(Succeed())
			Expect(srv.Serve()).To(MatchError(httpserver.ErrNotListening))

			ln, err := net.Listen("tcp", addr)
			Expect(err).NotTo(HaveOccurred())
			ln.Close()
		})

		It("treats Close before Listen as a no-op", func() {
			srv, err := httpserver.New("127.0.0.1:0", noop, logger.Discard())
			Expect(err).NotTo(HaveOccurred())
			Expect(srv.Close()).To(Succeed())
		})

		It("refuses to serve before binding", func() {
			srv, err := httpserver.New("127.0.0.1:0", noop, logger.Discard())
			Expect(err).NotTo(HaveOccurred())
			Expect(srv.Serve()).To(MatchError(httpserver.ErrNotListening))
		})

		It("shuts down gracefully and stops accepting connections", func() {
			var err error
			testServer, err = httpserver.New("127.0.0.1:0", noop, logger.Discard())
			Expect(err).NotTo(HaveOccurred())
			Expect(testServer.Listen()).To(Succeed())
			addr := testServer.Addr()

			served := make(chan error, 1)
			go func() { served <- testServer.Serve() }()

			Eventually(func() error {
				conn, err := net.Dial("tcp", addr)
				if err == nil {
					conn.Close()
				}
				return err
			}).Should(Succeed())

			Expect(testServer.Shutdown(context.Background(), 2*time.Second)).To(Succeed())
			Eventually(served).Should(Receive(BeNil()))

			_, err = net.Dial("tcp", addr)
			Expect(err).To(HaveOccurred())
		})

		It("lets in-flight requests complete during shutdown", func() {
			started := make(chan struct{})
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				close(started)
				time.Sleep(200 * time.Millisecond)
				w.Write([]byte("done"))
			})

			var err error
			testServer, err = httpserver.New("127.0.0.1:0", handler, logger.Discard())
			Expect(err).NotTo(HaveOccurred())
			Expect(testServer.Listen()).To(Succeed())
			go testServer.Serve()

			result := make(chan string, 1)
			go func() {
				defer GinkgoRecover()
				resp, err := http.Get("http://" + testServer.Addr())
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				body, _ := io.ReadAll(resp.Body)
				result <- string(body)
			}()

			Eventually(started).Should(BeClosed())
			Expect(testServer.Shutdown(context.Background(), 2*time.Second)).To(Succeed())
			Eventually(result).Should(Receive(Equal("done")))
		})

		It("survives malformed requests", func() {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("ok"))
			})
			var err error
			testServer, err = httpserver.New("127.0.0.1:0", handler, logger.Discard())
			Expect(err).NotTo(HaveOccurred())
			Expect(testServer.Listen()).To(Succeed())
			go testServer.Serve()

			conn, err := net.Dial("tcp", testServer.Addr())
			Expect(err).NotTo(HaveOccurred())
			_, err = conn.Write([]byte("NOT A REQUEST\r\n\r\n"))
			Expect(err).NotTo(HaveOccurred())
			conn.Close()

			resp, err := http.Get("http://" + testServer.Addr())
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
		})
	})
})
