package cmd

import (
	"lendpair/worker"
	interestworker "lendpair/worker/interest"
	watcherworker "lendpair/worker/watcher"

	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "lendpair job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		pairStore := providePairStore(database)
		pairService := providePairService(database)
		watcherService := provideWatcherService(database, provideCheckpointStore(database), providePropertyStore(database))

		jobs := []worker.IJob{
			interestworker.New(provideConfig(), pairStore, pairService),
		}
		for _, job := range jobs {
			if err := job.Start(); err != nil {
				log.WithError(err).Fatal("job start failed")
			}
			defer job.Stop()
		}

		var g errgroup.Group
		g.Go(func() error {
			return watcherworker.New(watcherService).Run(ctx)
		})

		if err := g.Wait(); err != nil {
			log.WithError(err).Errorln("worker exited")
		}
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
