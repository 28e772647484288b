package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Virginijus03/45-server/internal/client"
	"github.com/Virginijus03/45-server/internal/shared"
)

const usage = `usage: svc-cli [-config file] <command> [flags]

commands:
  login -email E -password P
  logout
  register -fullname N -email E -password P
  me
  services
  add-service -title T [-description D] [-icon I] [-inactive]
  update-service -id ID [-title T] [-description D] [-icon I] [-active=true|false]
  delete-service -id ID
`

func main() {
	configPath := flag.String("config", "./svc-cli.json", "path to client config json")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	c, err := client.New(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("Could not load client config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(c.Cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	out, err := run(ctx, c, flag.Arg(0), flag.Args()[1:])
	if err != nil {
		logrus.WithError(err).WithField("command", flag.Arg(0)).Fatal("Command failed")
	}
	if out != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	}
}

func run(ctx context.Context, c *client.Client, cmd string, args []string) (any, error) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	email := fs.String("email", c.Cfg.Email, "account email")
	password := fs.String("password", "", "account password")
	fullname := fs.String("fullname", "", "full name")
	id := fs.String("id", "", "service id")
	title := fs.String("title", "", "service title")
	description := fs.String("description", "", "service description")
	icon := fs.String("icon", "", "service icon")
	inactive := fs.Bool("inactive", false, "create the service hidden")
	active := fs.String("active", "", "set service visibility (true or false)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch cmd {
	case "login":
		return c.Login(ctx, *email, *password)
	case "logout":
		return nil, c.Logout(ctx)
	case "register":
		return c.Register(ctx, shared.RegisterRequest{Fullname: *fullname, Email: *email, Password: *password})
	case "me":
		return c.Me(ctx)
	case "services":
		return c.ListServices(ctx)
	case "add-service":
		on := !*inactive
		return c.AddService(ctx, shared.ServiceRequest{Title: *title, Description: *description, Icon: *icon, IsActive: &on})
	case "update-service":
		req := shared.ServiceRequest{ID: *id, Title: *title, Description: *description, Icon: *icon}
		switch *active {
		case "true":
			on := true
			req.IsActive = &on
		case "false":
			off := false
			req.IsActive = &off
		}
		return c.UpdateService(ctx, req)
	case "delete-service":
		return nil, c.DeleteService(ctx, *id)
	}
	return nil, errors.Errorf("unknown command %q", cmd)
}
