package awgn

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/nathanhack/ldpcbp/benchmarking"
	"github.com/nathanhack/ldpcbp/cmd/internal/tools"
	"github.com/nathanhack/ldpcbp/linearblock"
	"github.com/nathanhack/ldpcbp/linearblock/messagepassing/bp"
	mat "github.com/nathanhack/sparsemat"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
	mat2 "gonum.org/v1/gonum/mat"
)

var (
	Trials  uint
	SNRs    []float64
	Threads uint
	MaxIter uint
	Seed    uint64
	Config  string
)

var AWGNRun = func(cmd *cobra.Command, args []string) {
	if len(args) != 2 {
		fmt.Println("requires both ECC_JSON_FILE RESULT_JSON")
		return
	}

	config, err := loadConfig()
	if err != nil {
		fmt.Println(err)
		return
	}

	//first get the ECC to use
	code, err := tools.LoadCode(args[0])
	if err != nil {
		fmt.Println(err)
		return
	}

	//next we see if the RESULT_JSON exists if so we load it and validate we're running it against the right thing
	data, err := tools.LoadResults(args[1])
	if err != nil {
		fmt.Println(err)
		return
	}

	//if data is nil then we create it
	if data == nil {
		data = &tools.SimulationStats{
			TypeInfo: TypeInfo(),
			ECCInfo:  tools.Md5Sum(code.H),
			Stats:    make(map[float64]benchmarking.Stats),
		}
	}

	//in either case lets validate it
	if data.TypeInfo != TypeInfo() {
		fmt.Printf("results loaded do not match the same type expected %v but found %v\n", TypeInfo(), data.TypeInfo)
		return
	}
	if data.ECCInfo != tools.Md5Sum(code.H) {
		fmt.Println("results loaded do not match the ECC")
		return
	}

	ctx, cancel := tools.SignalContext()
	defer cancel()

	err = RunSimulation(ctx, data, code, config, args[1], true)
	if err != nil {
		fmt.Println(err)
	}

	err = tools.SaveResults(args[1], data)
	if err != nil {
		fmt.Println(err)
	}
}

func loadConfig() (benchmarking.Config, error) {
	if Config != "" {
		return benchmarking.LoadConfig(Config)
	}
	config := benchmarking.Config{
		SNRs:    SNRs,
		Trials:  int(Trials),
		Threads: int(Threads),
		MaxIter: int(MaxIter),
		Seed:    Seed,
	}
	return config, config.Validate()
}

func TypeInfo() string {
	t := reflect.TypeOf(bp.Decoder{})
	return fmt.Sprintf("AWGN:%v/%v", t.PkgPath(), t.Name())
}

//RunSimulation runs config.Trials trials for every SNR, a few at a time so the
// checkpoints written to outputFilename cover every SNR evenly.
func RunSimulation(ctx context.Context, data *tools.SimulationStats, code *linearblock.Code, config benchmarking.Config, outputFilename string, showProgress bool) error {
	decoder, err := code.Decoder(bp.WithUnconvergedLevel(logrus.DebugLevel))
	if err != nil {
		return err
	}

	checkpointMux := sync.Mutex{}
	checkpointCount := 0

	numberOfThread := config.Threads
	if numberOfThread <= 0 {
		numberOfThread = runtime.NumCPU()
	}

	trialsPerIter := numberOfThread * 10
	var bar *pb.ProgressBar
	if showProgress {
		bar = pb.StartNew(config.Trials * len(config.SNRs))
	}

trialLoops:
	for t := trialsPerIter; ; t += trialsPerIter {
		select {
		case <-ctx.Done():
			break trialLoops
		default:
		}
		trials := min(t, config.Trials)

		for _, snr := range config.SNRs {
			checkpoint := func(stats benchmarking.Stats) {
				//we want to save the checkpoint
				checkpointMux.Lock()
				defer checkpointMux.Unlock()

				data.Stats[snr] = stats

				if outputFilename != "" && checkpointCount%trialsPerIter == 0 {
					err := tools.SaveResults(outputFilename, data)
					if err != nil {
						fmt.Println(err)
					}
				}
				checkpointCount++
			}

			before := data.Stats[snr].ChannelCodewordError.Count
			stats := RunAWGN(ctx, code, decoder, snr, trials, numberOfThread, config.MaxIter, config.Seed, data.Stats[snr], checkpoint, false)
			checkpointMux.Lock()
			data.Stats[snr] = stats
			checkpointMux.Unlock()
			if bar != nil {
				bar.Add(stats.ChannelCodewordError.Count - before)
			}
		}

		if trials == config.Trials {
			break
		}
	}
	if bar != nil {
		bar.Finish()
	}

	for _, snr := range config.SNRs {
		logrus.Debugf("snr %v: %v", snr, data.Stats[snr])
	}
	return ctx.Err()
}

//RunAWGN sends random messages of code over BPSK with AWGN at snr (dB) and decodes them with belief propagation.
// Codes without a generator send the all-zero codeword. Every trial draws from its own source derived from seed
// so continuing previousStats reproduces the same trials.
func RunAWGN(ctx context.Context,
	code *linearblock.Code,
	decoder *bp.Decoder,
	snr float64, trials, threads, maxIter int,
	seed uint64,
	previousStats benchmarking.Stats,
	checkpoints benchmarking.Checkpoints,
	showProgress bool) benchmarking.Stats {

	createMessage := func(trial int) mat.SparseVector {
		if code.TG == nil {
			return mat.CSRVec(code.MessageLength())
		}
		return benchmarking.RandomMessage(code.MessageLength(), trialSource(seed, trial, 0))
	}

	encode := func(message mat.SparseVector) (codeword mat.SparseVector) {
		if code.TG == nil {
			return mat.CSRVec(code.CodewordLength())
		}
		return code.Encode(message)
	}

	channel := func(trial int, bpsk mat2.Vector) (received mat2.Vector) {
		return benchmarking.RandomNoiseBPSK(bpsk, snr, trialSource(seed, trial, 1))
	}

	return benchmarking.BenchmarkAWGNContinueStats(ctx, trials, threads, createMessage, encode, channel,
		benchmarking.DecoderCorrection(ctx, decoder, snr, maxIter), benchmarking.CodeMetrics(ctx, code),
		checkpoints, previousStats, showProgress)
}

func trialSource(seed uint64, trial int, stream uint64) rand.Source {
	return rand.NewSource(seed*0x9E3779B97F4A7C15 + uint64(trial)<<1 + stream)
}
