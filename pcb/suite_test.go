package pcb_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestPCB(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "PCB Suite")
}
