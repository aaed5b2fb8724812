package gallager

import (
	"fmt"
	"time"

	"github.com/nathanhack/ldpcbp/cmd/internal/tools"
	"github.com/nathanhack/ldpcbp/linearblock/ldpc/gallager"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
)

var Checks uint
var Wc uint
var Wr uint
var Smallest uint
var Iter uint
var Threads uint

var GallagerRun = func(cmd *cobra.Command, args []string) {
	//we seed the randomizer so we get something different every time
	rand.Seed(uint64(time.Now().UnixNano()))

	ctx, cancel := tools.SignalContext()
	defer cancel()

	g, err := gallager.Search(ctx, int(Checks), int(Wc), int(Wr), int(Smallest), int(Iter), int(Threads))
	if err != nil {
		fmt.Println("Unable to create gallager LDPC: ", err)
		return
	}

	if g == nil {
		fmt.Println("Unable to create gallager LDPC try again")
		return
	}

	err = tools.SaveCode(args[0], g)
	if err != nil {
		fmt.Println(err)
	}
}
