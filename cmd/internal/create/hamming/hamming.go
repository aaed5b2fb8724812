package hamming

import (
	"fmt"

	"github.com/nathanhack/ldpcbp/cmd/internal/tools"
	"github.com/nathanhack/ldpcbp/linearblock/hamming"
	"github.com/spf13/cobra"
)

var (
	ParityBits uint
)

var HammingRun = func(cmd *cobra.Command, args []string) {
	h, err := hamming.New(int(ParityBits))
	if err != nil {
		fmt.Println("Unable to create hamming code: ", err)
		return
	}

	err = tools.SaveCode(args[0], h)
	if err != nil {
		fmt.Println(err)
	}
}
