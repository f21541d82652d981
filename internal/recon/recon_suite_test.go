package recon_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRecon(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Recon Suite")
}
