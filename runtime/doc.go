// Package runtime provides the high-level API over the runtime core.
//
// # Quick Start
//
//	ctx := context.Background()
//	rt, err := runtime.New(ctx, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	// Register compiled modules
//	rt.Register(loader.Unit{Name: "Main", Dependencies: []string{"Data.List"}, Init: initMain})
//	if err := rt.Load(ctx, "Main"); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Evaluate
//	v, err := rt.Force(ctx, mainClosure)
//
// # Components
//
// A Runtime owns one of each:
//
//	Scheduler  runs logical threads (rts)
//	Loader     initializes modules in dependency order (loader)
//	Table      stable pointers for values handed to host code (stable)
//	Arena      pinned byte buffers in a wazero linear memory (buffer)
//	Hosts      Go functions callable from runtime code
//
// Every registered module implicitly depends on GHC.Prim, which the
// runtime registers itself.
//
// # Host Functions
//
// Register Go functions as closures runtime code can call:
//
//	rt.RegisterFunc("Foreign.Math", "hypot", func(a, b float64) float64 {
//	    return math.Hypot(a, b)
//	})
//	hypot, _ := rt.Hosts().Lookup("Foreign.Math", "hypot")
//
// Or a whole struct; exported methods become lowerCamelCase functions:
//
//	type Console struct{ out io.Writer }
//	func (Console) Module() string { return "Foreign.Console" }
//	func (c Console) PutInt(n int32) { fmt.Fprintln(c.out, n) }
//
//	rt.RegisterHost(Console{os.Stdout}) // Foreign.Console.putInt
//
// Boxed Int and Char arguments are unboxed to int32 and rune parameters.
//
// # Thread Safety
//
// Force, Run and the value conversions drive the scheduler and must be
// called from one goroutine at a time. Registration, loading, the stable
// table and the arena are safe for concurrent use.
package runtime
