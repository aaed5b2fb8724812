package linearblock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/nathanhack/ldpcbp/linearblock/gf2"
	"github.com/nathanhack/ldpcbp/linearblock/messagepassing/bp"
	mat "github.com/nathanhack/sparsemat"
	mat2 "gonum.org/v1/gonum/mat"
)

//Code contains the parity-check matrix H and, when known, the transpose of the
// systematic generator TG (n x k). Codes without TG can still be decoded but
// not encoded.
type Code struct {
	H  mat.SparseMat
	TG mat.SparseMat

	mux     sync.Mutex
	decoder *bp.Decoder
}

//// For JSON unmarshalling
type code struct {
	H  mat.CSRMatrix
	TG *mat.CSRMatrix
}

//UnmarshalJSON is needed because Code has mat.SparseMat fields and requires special handling
func (c *Code) UnmarshalJSON(bytes []byte) error {
	var tmp code
	err := json.Unmarshal(bytes, &tmp)
	if err != nil {
		return err
	}

	c.H = &tmp.H
	c.TG = nil
	if tmp.TG != nil {
		c.TG = tmp.TG
	}

	c.mux.Lock()
	c.decoder = nil
	c.mux.Unlock()
	return nil
}

//Encode takes in a message and encodes it, returning a codeword
func (c *Code) Encode(message mat.SparseVector) (codeword mat.SparseVector) {
	if c.TG == nil {
		panic("code has no generator and can not encode")
	}
	k := c.MessageLength()
	if message.Len() != k {
		panic(fmt.Sprintf("message length == %v is required but found %v", k, message.Len()))
	}
	return gf2.BinaryProductVec(c.TG, message)
}

func (c *Code) Syndrome(codeword mat.SparseVector) (syndrome mat.SparseVector) {
	return gf2.BinaryProductVec(c.H, codeword)
}

//MessageLength is k, taken from TG, or the design value n-m when TG is unknown.
func (c *Code) MessageLength() int {
	if c.TG != nil {
		_, k := c.TG.Dims()
		return k
	}
	return c.CodewordLength() - c.ParitySymbols()
}

func (c *Code) ParitySymbols() int {
	m, _ := c.H.Dims()
	return m
}

func (c *Code) CodewordLength() int {
	_, n := c.H.Dims()
	return n
}

func (c *Code) CodeRate() float64 {
	return float64(c.MessageLength()) / float64(c.CodewordLength())
}

//Validate will test if H*TG=0, a code without TG only needs a non-empty H
func (c *Code) Validate() bool {
	if c.H == nil {
		return false
	}
	m, n := c.H.Dims()
	if m == 0 || n == 0 {
		return false
	}
	if c.TG == nil {
		return true
	}
	rows, _ := c.TG.Dims()
	return rows == n && gf2.InCode(c.H, c.TG)
}

//Message takes in a codeword and returns the message contained in it
func (c *Code) Message(ctx context.Context, codeword mat.SparseVector, threads int) (message mat.SparseVector, err error) {
	if c.TG == nil {
		return nil, fmt.Errorf("code has no generator to recover a message with")
	}
	if codeword.Len() != c.CodewordLength() {
		return nil, fmt.Errorf("codeword length == %v required but found %v", c.CodewordLength(), codeword.Len())
	}
	return gf2.Message(ctx, c.TG, codeword, threads)
}

//Decoder returns the belief propagation decoder of H. Without options the
// decoder is built once and cached, with options a new one is returned.
func (c *Code) Decoder(opts ...bp.Option) (*bp.Decoder, error) {
	if len(opts) > 0 {
		return bp.NewDecoder(c.H, opts...)
	}

	c.mux.Lock()
	defer c.mux.Unlock()
	if c.decoder == nil {
		d, err := bp.NewDecoder(c.H)
		if err != nil {
			return nil, err
		}
		c.decoder = d
	}
	return c.decoder, nil
}

//Decode runs belief propagation on the BPSK received word y and, when the
// code has TG, recovers the message from the decoded codeword.
func (c *Code) Decode(ctx context.Context, y mat2.Vector, snr float64, maxIter int) (message mat.SparseVector, result *bp.Result, err error) {
	d, err := c.Decoder()
	if err != nil {
		return nil, nil, err
	}

	codeword, result, err := d.DecodeVec(ctx, y, snr, maxIter)
	if err != nil {
		return nil, nil, err
	}
	if c.TG == nil {
		return nil, result, nil
	}

	message, err = c.Message(ctx, codeword, 1)
	if err != nil {
		return nil, result, err
	}
	return message, result, nil
}

func (c *Code) String() string {
	buf := strings.Builder{}
	buf.WriteString("{\nH:\n")
	buf.WriteString(c.H.String())
	if c.TG != nil {
		buf.WriteString("\nTG:\n")
		buf.WriteString(c.TG.String())
	}
	buf.WriteString("\n}\n")
	return buf.String()
}
