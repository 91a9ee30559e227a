// Package mongo provides MongoDB connection management and small helpers
// shared by the document stores.
//
// Configuration is environment-driven (see Config). Connect retries the
// initial ping a configured number of times, which absorbs the usual
// container start-order races in docker-compose and Kubernetes.
//
//	db, client, err := mongo.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Disconnect(context.Background())
//
//	ready := mongo.Healthcheck(client)
package mongo
