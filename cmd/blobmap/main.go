// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"storj.io/blobmap/blobid"
	"storj.io/blobmap/clustermap"
	"storj.io/blobmap/signedid"
)

var (
	rootCmd = &cobra.Command{
		Use:           "blobmap",
		Short:         "Blob identifier toolbox",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate a fresh blob id",
		RunE:  cmdGenerate,
	}
	inspectCmd = &cobra.Command{
		Use:   "inspect <blob-id>",
		Short: "Decode a blob id and print its fields",
		Args:  cobra.ExactArgs(1),
		RunE:  cmdInspect,
	}
	craftCmd = &cobra.Command{
		Use:   "craft <blob-id>",
		Short: "Craft a blob id into a target version with new ownership",
		Args:  cobra.ExactArgs(1),
		RunE:  cmdCraft,
	}
	signCmd = &cobra.Command{
		Use:   "sign <blob-id>",
		Short: "Wrap a blob id in a signed id envelope",
		Args:  cobra.ExactArgs(1),
		RunE:  cmdSign,
	}
	parseSignedCmd = &cobra.Command{
		Use:   "parse-signed <signed-id>",
		Short: "Unwrap a signed id envelope",
		Args:  cobra.ExactArgs(1),
		RunE:  cmdParseSigned,
	}

	log *zap.Logger

	generateCfg struct {
		version    int
		crafted    bool
		datacenter int8
		account    int16
		container  int16
		partition  uint64
		encrypted  bool
		dataType   int
	}

	craftCfg struct {
		target    int
		account   int16
		container int16
	}

	signMetadata []string
)

func init() {
	rootCmd.PersistentFlags().Int("partitions", 16,
		"number of partitions in the cluster map")
	rootCmd.PersistentFlags().String("log-level", "info",
		"minimum level for diagnostics on stderr")
	rootCmd.PersistentPreRunE = setup

	generateCmd.Flags().IntVar(&generateCfg.version, "id-version", int(blobid.V5), "blob id version to generate")
	generateCmd.Flags().BoolVar(&generateCfg.crafted, "crafted", false, "mark the id as crafted")
	generateCmd.Flags().Int8Var(&generateCfg.datacenter, "datacenter", 1, "datacenter id")
	generateCmd.Flags().Int16Var(&generateCfg.account, "account", 1, "account id")
	generateCmd.Flags().Int16Var(&generateCfg.container, "container", 1, "container id")
	generateCmd.Flags().Uint64Var(&generateCfg.partition, "partition", 0, "partition index")
	generateCmd.Flags().BoolVar(&generateCfg.encrypted, "encrypted", false, "mark the blob as encrypted")
	generateCmd.Flags().IntVar(&generateCfg.dataType, "data-type", int(blobid.DataChunk), "blob data type (0 data chunk, 1 metadata, 2 simple)")

	craftCmd.Flags().IntVar(&craftCfg.target, "target", int(blobid.V5), "target blob id version")
	craftCmd.Flags().Int16Var(&craftCfg.account, "account", 0, "new account id")
	craftCmd.Flags().Int16Var(&craftCfg.container, "container", 0, "new container id")

	signCmd.Flags().StringSliceVar(&signMetadata, "meta", nil, "metadata entries as key=value")

	rootCmd.AddCommand(generateCmd, inspectCmd, craftCmd, signCmd, parseSignedCmd)
}

// setup binds the persistent flags to the environment (BLOBMAP_PARTITIONS,
// BLOBMAP_LOG_LEVEL) and builds the diagnostics logger. Results go to
// stdout, diagnostics to stderr, so output stays pipeable.
func setup(cmd *cobra.Command, args []string) error {
	viper.SetEnvPrefix("blobmap")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return errs.Wrap(err)
	}

	level, err := zapcore.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return errs.New("unknown log level %q", viper.GetString("log-level"))
	}
	log = zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			MessageKey:     "message",
			LevelKey:       "level",
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeDuration: zapcore.StringDurationEncoder,
		}),
		zapcore.Lock(os.Stderr),
		level,
	))
	return nil
}

func directory() clustermap.Directory {
	return clustermap.NewStaticDirectory(viper.GetInt("partitions"))
}

func cmdGenerate(cmd *cobra.Command, args []string) error {
	dir := directory()
	partition, err := dir.ReadPartition(
		bytes.NewReader(clustermap.NewPartition(generateCfg.partition).Bytes()))
	if err != nil {
		return err
	}

	typ := blobid.TypeNative
	if generateCfg.crafted {
		typ = blobid.TypeCrafted
	}
	id, err := blobid.New(blobid.Version(generateCfg.version), typ,
		generateCfg.datacenter, generateCfg.account, generateCfg.container,
		partition, generateCfg.encrypted, blobid.DataType(generateCfg.dataType))
	if err != nil {
		return err
	}

	log.Debug("generated blob id",
		zap.Int("version", generateCfg.version),
		zap.Uint64("partition", generateCfg.partition),
		zap.String("uuid", id.UUID()))
	fmt.Println(id.String())
	return nil
}

func cmdInspect(cmd *cobra.Command, args []string) error {
	s := args[0]
	if signedid.IsSigned(s) {
		inner, metadata, err := signedid.Parse(s)
		if err != nil {
			log.Error("signed id envelope rejected", zap.Error(err))
			return err
		}
		log.Debug("unwrapped signed id envelope",
			zap.Int("metadata_entries", len(metadata)))
		fmt.Println("signed id envelope")
		for key, value := range metadata {
			fmt.Printf("  metadata %s=%s\n", key, value)
		}
		s = inner
	}

	// Fast predicates first: they only look at the header prefix.
	version, err := blobid.VersionOf(s)
	if err != nil {
		return errs.Wrap(err)
	}
	crafted, err := blobid.IsCrafted(s)
	if err != nil {
		return errs.Wrap(err)
	}
	encrypted, err := blobid.IsEncrypted(s)
	if err != nil {
		return errs.Wrap(err)
	}
	fmt.Printf("version:   V%d\n", version)
	fmt.Printf("crafted:   %v\n", crafted)
	fmt.Printf("encrypted: %v\n", encrypted)

	id, err := blobid.FromString(s, directory())
	if err != nil {
		log.Error("blob id rejected",
			zap.Error(err),
			zap.Int("version", int(version)))
		return errs.Wrap(err)
	}
	log.Debug("decoded blob id",
		zap.Int("version", int(version)),
		zap.Int("size", id.SizeInBytes()))
	fmt.Printf("type:      %s\n", id.Type())
	fmt.Printf("datacenter: %d\n", id.DatacenterID())
	fmt.Printf("account:   %d\n", id.AccountID())
	fmt.Printf("container: %d\n", id.ContainerID())
	fmt.Printf("partition: %v\n", id.Partition())
	if dataType, ok := id.DataType(); ok {
		fmt.Printf("data type: %s\n", dataType)
	}
	fmt.Printf("uuid:      %q\n", id.UUID())
	fmt.Printf("size:      %d bytes\n", id.SizeInBytes())
	return nil
}

func cmdCraft(cmd *cobra.Command, args []string) error {
	input, err := blobid.FromString(args[0], directory())
	if err != nil {
		return err
	}
	crafted, err := blobid.Craft(input, blobid.Version(craftCfg.target),
		craftCfg.account, craftCfg.container)
	if err != nil {
		return err
	}
	log.Debug("crafted blob id",
		zap.Int("source_version", int(input.Version())),
		zap.Int("target_version", craftCfg.target))
	fmt.Println(crafted.String())
	return nil
}

func cmdSign(cmd *cobra.Command, args []string) error {
	metadata := make(map[string]string, len(signMetadata))
	for _, entry := range signMetadata {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			return errs.New("metadata entry %q is not key=value", entry)
		}
		metadata[key] = value
	}

	signed, err := signedid.Sign(args[0], metadata)
	if err != nil {
		return err
	}
	fmt.Println(signed)
	return nil
}

func cmdParseSigned(cmd *cobra.Command, args []string) error {
	id, metadata, err := signedid.Parse(args[0])
	if err != nil {
		return err
	}
	fmt.Println(id)
	for key, value := range metadata {
		fmt.Printf("%s=%s\n", key, value)
	}
	return nil
}

func main() {
	err := rootCmd.Execute()
	if log != nil {
		if err != nil {
			log.Error("command failed", zap.Error(err))
		}
		_ = log.Sync()
	}
	if err != nil {
		os.Exit(1)
	}
}
