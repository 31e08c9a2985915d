package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/edwinhayes/rmwdds/dds/memdds"
	"github.com/edwinhayes/rmwdds/libtest/msgs/example_interfaces"
	"github.com/edwinhayes/rmwdds/rmw"
)

func main() {
	cfg, err := rmw.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	if len(cfg.NonRosArgs) != 2 {
		fmt.Print("USAGE: test_add_two_ints <int> <int>")
		os.Exit(-1)
	}
	var a, b int64
	if a, err = strconv.ParseInt(cfg.NonRosArgs[0], 10, 64); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if b, err = strconv.ParseInt(cfg.NonRosArgs[1], 10, 64); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	opts := cfg.InitOptions()
	opts.Factory = memdds.NewDomain()
	ctx, err := rmw.Init(opts)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	defer func() {
		ctx.Shutdown()
		ctx.Fini()
	}()

	server, err := ctx.CreateNode("add_two_ints_server", cfg.Namespace)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	defer server.Destroy()
	client, err := ctx.CreateNode("add_two_ints_client", cfg.Namespace)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	defer client.Destroy()

	qos := rmw.QoSProfileServicesDefault()
	srv, err := server.CreateService(example_interfaces.SrvAddTwoInts, "add_two_ints", &qos)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	defer server.DestroyService(srv)

	// Two clients share the response topic; each only sees its own answers.
	first, err := client.CreateClient(example_interfaces.SrvAddTwoInts, "add_two_ints", &qos)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	defer client.DestroyClient(first)
	second, err := client.CreateClient(example_interfaces.SrvAddTwoInts, "add_two_ints", &qos)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	defer client.DestroyClient(second)

	if ok, err := client.ServiceServerIsAvailable(first); err != nil || !ok {
		fmt.Println("service is not available", err)
		os.Exit(1)
	}

	go serve(srv)

	for i, cli := range []*rmw.Client{first, second} {
		req := example_interfaces.AddTwoInts_Request{A: a * int64(i+1), B: b * int64(i+1)}
		seq, err := cli.SendRequest(&req)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		var res example_interfaces.AddTwoInts_Response
		info, err := await(cli, &res)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("client %s request %d (answered %d): %d + %d = %d\n",
			cli.WriterGUID(), seq, info.RequestID.SequenceNumber, req.A, req.B, res.Sum)
	}
}

func serve(srv *rmw.Service) {
	for {
		if err := srv.GuardCondition().Wait(context.Background()); err != nil {
			return
		}
		var req example_interfaces.AddTwoInts_Request
		info, taken, err := srv.TakeRequest(&req)
		if err != nil {
			return
		}
		if !taken {
			continue
		}
		res := example_interfaces.AddTwoInts_Response{Sum: req.A + req.B}
		if err := srv.SendResponse(info.RequestID, &res); err != nil {
			return
		}
	}
}

func await(cli *rmw.Client, res *example_interfaces.AddTwoInts_Response) (rmw.ServiceInfo, error) {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		info, taken, err := cli.TakeResponse(res)
		if err != nil {
			return info, err
		}
		if taken {
			return info, nil
		}
		time.Sleep(time.Millisecond)
	}
	return rmw.ServiceInfo{}, rmw.ErrTimeout
}
