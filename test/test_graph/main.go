package main

import (
	"context"
	"fmt"
	"os"
	"sort"
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
	name := cfg.NodeName
	if name == "" {
		name = "graph"
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

	observer, err := ctx.CreateNode(name, cfg.Namespace)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	defer observer.Destroy()
	talker, err := ctx.CreateNode("talker", cfg.Namespace)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	defer talker.Destroy()

	qos := rmw.QoSProfileDefault()
	pub, err := talker.CreatePublisher(example_interfaces.MsgString, "chatter", &qos)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	defer talker.DestroyPublisher(pub)
	sub, err := observer.CreateSubscription(example_interfaces.MsgString, "chatter", &qos)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	defer observer.DestroySubscription(sub)
	srvQoS := rmw.QoSProfileServicesDefault()
	srv, err := talker.CreateService(example_interfaces.SrvAddTwoInts, "add_two_ints", &srvQoS)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	defer talker.DestroyService(srv)

	// Wait until the observer has seen both ends of the service.
	guard := observer.GraphGuardCondition()
	for {
		services, err := observer.ServiceNamesAndTypes()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		n, _ := observer.CountPublishers("chatter")
		if len(services) > 0 && n > 0 {
			break
		}
		guard.Take()
		wctx, cancel := context.WithTimeout(context.Background(), time.Second)
		err = guard.Wait(wctx)
		cancel()
		if err != nil {
			fmt.Println("timed out waiting for discovery")
			os.Exit(1)
		}
	}

	topics, _ := observer.TopicNamesAndTypes(false)
	fmt.Println("topics:")
	printNamesAndTypes(topics)
	services, _ := observer.ServiceNamesAndTypes()
	fmt.Println("services:")
	printNamesAndTypes(services)
	servers, _ := observer.ServerNamesAndTypesByParticipant(talker.ParticipantGUID())
	fmt.Printf("servers of %s:\n", talker.FullyQualifiedName())
	printNamesAndTypes(servers)

	msg := example_interfaces.String{Data: "hello"}
	if err := pub.Publish(&msg); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	var got example_interfaces.String
	if taken, err := sub.TakeMessage(&got); err == nil && taken {
		fmt.Printf("received '%s'\n", got.Data)
	}
}

func printNamesAndTypes(m map[string][]string) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s %v\n", name, m[name])
	}
}
