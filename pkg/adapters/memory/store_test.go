package memory

import (
	"testing"

	"github.com/muunkky/hottopoteto/pkg/ports"
)

func TestStoreContract(t *testing.T) {
	ports.RunEntryStoreContract(t, NewStore())
}
