package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jasonlvhit/gocron"
	"github.com/qiniu/x/log"

	"github.com/solutions/hire-cube/internal/common/utils"
	"github.com/solutions/hire-cube/internal/service/task"
	"github.com/solutions/hire-cube/internal/service/web"
)

var (
	configFilePath = "hire-cube.conf"
)

func main() {
	fmt.Println(time.Now())
	flag.StringVar(&configFilePath, "f", configFilePath, "configuration file to run hire-cube server")
	flag.Parse()

	utils.InitConf(configFilePath)
	log.SetOutputLevel(utils.DefaultConf.DebugLevel)
	rand.Seed(time.Now().UnixNano())
	// 启动定时任务
	go func() {
		interviewTask, err := task.NewInterviewTask(utils.DefaultConf.Mongo.URI, utils.DefaultConf.Mongo.Database)
		if err != nil {
			log.Errorf("failed to create interview task, error %v", err)
			return
		}
		_ = gocron.Every(1).Hours().Do(interviewTask.TaskForCompleteInterview)
		<-gocron.Start()
	}()
	// 启动 gin HTTP server。
	r, err := web.NewRouter(&utils.DefaultConf)
	if err != nil {
		log.Fatalf("failed to create gin HTTP server, error %v", err)
	}

	errch := make(chan error, 1)
	go func() {
		httpServerErr := r.Run(utils.DefaultConf.ListenAddr)
		errch <- httpServerErr
	}()

	qC := make(chan os.Signal, 1)
	signal.Notify(qC, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-qC:
		log.Info(s.String())
	case err = <-errch:
		log.Error("http server stopped, error", err.Error())
	}
}
