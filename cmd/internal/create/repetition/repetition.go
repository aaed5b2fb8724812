package repetition

import (
	"fmt"

	"github.com/nathanhack/ldpcbp/cmd/internal/tools"
	"github.com/nathanhack/ldpcbp/linearblock/repetition"
	"github.com/spf13/cobra"
)

var Length uint

var RepetitionRun = func(cmd *cobra.Command, args []string) {
	r, err := repetition.New(int(Length))
	if err != nil {
		fmt.Println("Unable to create repetition code: ", err)
		return
	}

	err = tools.SaveCode(args[0], r)
	if err != nil {
		fmt.Println(err)
	}
}
