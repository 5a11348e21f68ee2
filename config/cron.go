package config

// Map of job names to job functions
type CronJob struct {
	Schedule string
	Job      func(...string)
}

// CronJobs holds statically configured jobs. Application jobs register
// themselves through cron.Register from init(); both maps are merged
// when the scheduler starts.
var CronJobs = map[string]CronJob{
	// Add more jobs here
}
