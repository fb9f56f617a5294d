// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/folderforge/folderforge/internal/commands"
	"github.com/folderforge/folderforge/internal/config"
	"github.com/folderforge/folderforge/internal/services/clipboard"
	"github.com/folderforge/folderforge/internal/types"
	"github.com/folderforge/folderforge/internal/utils"
)

const (
	ignoreFlagName      = "ignore"
	ignoreFileFlagName  = "ignore-file"
	maxDepthFlagName    = "max-depth"
	outputFlagName      = "output"
	includeRootFlagName = "include-root"
	copyFlagName        = "copy"
	targetFlagName      = "target"
	stripRootFlagName   = "strip-root"
	onConflictFlagName  = "on-conflict"
	verboseFlagName     = "verbose"
	versionFlagName     = "version"
	globalFlagName      = "global"
	forceFlagName       = "force"
	configFileFlagName  = "config"

	versionTemplate      = "folderforge version: %s\n"
	rootUse              = "folderforge"
	rootShortDescription = "folderforge command line interface"
	rootLongDescription  = `folderforge documents a directory hierarchy as a text tree and reconstructs it elsewhere.
Use export to serialize a directory into the line-oriented tree format and create to materialize such a tree under a target directory. Only structure is carried over: names and kinds, never file contents.`

	exportUse              = "export <root>"
	exportAlias            = "e"
	exportShortDescription = "export a directory structure to text (" + exportAlias + ")"
	exportLongDescription  = `Walk a directory and print its structure as an indented text tree.
Entries matching an ignore glob are excluded; ignored directories are not descended into.`
	exportUsageExample = `  # Print the structure of the current project
  folderforge export .

  # Write two levels of src to a file, skipping temporaries
  folderforge export src --max-depth 2 --ignore '*.tmp' --output structure.txt`

	createUse              = "create <spec-file>"
	createAlias            = "c"
	createShortDescription = "create a directory structure from text (" + createAlias + ")"
	createLongDescription  = `Read a structure text file and create the described directories and files.
The whole file is validated before anything is created; use - to read from standard input.`
	createUsageExample = `  # Materialize a saved structure under ./workspace
  folderforge create structure.txt --target workspace

  # Pipe a structure in and tolerate conflicting entries
  cat structure.txt | folderforge create - --on-conflict skip`

	configUse                  = "config"
	configShortDescription     = "manage configuration"
	configInitUse              = "init"
	configInitShortDescription = "write a default configuration file"

	ignoreFlagDescription      = "glob pattern to exclude (repeatable)"
	ignoreFileFlagDescription  = "file with glob patterns to exclude, one per line"
	maxDepthFlagDescription    = "maximum depth to export, negative for unlimited"
	outputFlagDescription      = "write the structure to a file instead of stdout"
	includeRootFlagDescription = "emit the root directory as a header line"
	copyFlagDescription        = "also copy the structure to the clipboard"
	targetFlagDescription      = "directory to create the structure under"
	stripRootFlagDescription   = "ignore a root header line in the structure file"
	onConflictFlagDescription  = "behavior for conflicting pre-existing targets (fail or skip)"
	verboseFlagDescription     = "log traversal and creation steps"
	versionFlagDescription     = "display application version"
	globalFlagDescription      = "write the global configuration file"
	forceFlagDescription       = "overwrite an existing configuration file"
	configFileFlagDescription  = "path to an explicit configuration file"

	defaultTargetDirectory     = "."
	standardInputSpecification = "-"

	invalidConflictPolicyFormat = "invalid %s value '%s': must be %s or %s"
	errorRootNotDirectoryFormat = "root path '%s' is not a directory"
	errorReadSpecFileFormat     = "reading structure file %s: %w"
	errorReadStandardInput      = "reading structure from standard input: %w"
	errorWriteOutputFormat      = "writing %s: %w"
	errorCopyClipboardFormat    = "copying structure to clipboard: %w"
	errorCreateTargetFormat     = "creating target directory %s: %w"
	errorAbsolutePathFormat     = "getting absolute path for %s: %w"
	errorPathMissingFormat      = "path '%s' does not exist"
	errorStatFormat             = "stat failed for '%s': %w"

	outputFilePermissions = 0o644
)

// Execute runs the folderforge application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool
	var verboseEnabled bool
	var configFilePath string

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().BoolVar(&verboseEnabled, verboseFlagName, false, verboseFlagDescription)
	rootCommand.PersistentFlags().StringVar(&configFilePath, configFileFlagName, "", configFileFlagDescription)
	rootCommand.AddCommand(
		createExportCommand(&verboseEnabled, &configFilePath),
		createCreateCommand(&verboseEnabled, &configFilePath),
		createConfigCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// exportOptions stores configuration for export command flags.
type exportOptions struct {
	ignorePatterns  []string
	ignoreFilePath  string
	maxDepth        int
	outputFilePath  string
	includeRoot     bool
	copyToClipboard bool
}

// createExportCommand returns the export subcommand.
func createExportCommand(verboseEnabled *bool, configFilePath *string) *cobra.Command {
	var options exportOptions

	exportCommand := &cobra.Command{
		Use:     exportUse,
		Aliases: []string{exportAlias},
		Short:   exportShortDescription,
		Long:    exportLongDescription,
		Example: exportUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return runExport(command, arguments[0], options, *verboseEnabled, *configFilePath)
		},
	}

	exportCommand.Flags().StringArrayVarP(&options.ignorePatterns, ignoreFlagName, "i", nil, ignoreFlagDescription)
	exportCommand.Flags().StringVar(&options.ignoreFilePath, ignoreFileFlagName, "", ignoreFileFlagDescription)
	exportCommand.Flags().IntVar(&options.maxDepth, maxDepthFlagName, commands.UnlimitedDepth, maxDepthFlagDescription)
	exportCommand.Flags().StringVarP(&options.outputFilePath, outputFlagName, "o", "", outputFlagDescription)
	exportCommand.Flags().BoolVar(&options.includeRoot, includeRootFlagName, false, includeRootFlagDescription)
	exportCommand.Flags().BoolVar(&options.copyToClipboard, copyFlagName, false, copyFlagDescription)
	return exportCommand
}

// createOptions stores configuration for create command flags.
type createOptions struct {
	targetDirectory string
	stripRoot       bool
	conflictPolicy  string
}

// createCreateCommand returns the create subcommand.
func createCreateCommand(verboseEnabled *bool, configFilePath *string) *cobra.Command {
	var options createOptions

	createCommand := &cobra.Command{
		Use:     createUse,
		Aliases: []string{createAlias},
		Short:   createShortDescription,
		Long:    createLongDescription,
		Example: createUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return runCreate(command, arguments[0], options, *verboseEnabled, *configFilePath)
		},
	}

	createCommand.Flags().StringVarP(&options.targetDirectory, targetFlagName, "t", defaultTargetDirectory, targetFlagDescription)
	createCommand.Flags().BoolVar(&options.stripRoot, stripRootFlagName, false, stripRootFlagDescription)
	createCommand.Flags().StringVar(&options.conflictPolicy, onConflictFlagName, types.ConflictPolicyFail, onConflictFlagDescription)
	return createCommand
}

// createConfigCommand returns the config subcommand with its init action.
func createConfigCommand() *cobra.Command {
	var writeGlobal bool
	var forceOverwrite bool

	configInitCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if writeGlobal {
				target = config.InitTargetGlobal
			}
			writtenPath, initializeError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: forceOverwrite})
			if initializeError != nil {
				return initializeError
			}
			fmt.Println(writtenPath)
			return nil
		},
	}
	configInitCommand.Flags().BoolVar(&writeGlobal, globalFlagName, false, globalFlagDescription)
	configInitCommand.Flags().BoolVar(&forceOverwrite, forceFlagName, false, forceFlagDescription)

	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	configCommand.AddCommand(configInitCommand)
	return configCommand
}

// runExport executes the export command against a validated root directory.
func runExport(command *cobra.Command, rootArgument string, options exportOptions, verboseEnabled bool, configFilePath string) error {
	loggerInstance, loggerError := utils.NewApplicationLogger(verboseEnabled)
	if loggerError != nil {
		return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
	}
	defer func() {
		_ = loggerInstance.Sync()
	}()

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: configFilePath})
	if configurationError != nil {
		return configurationError
	}

	validatedRoot, validationError := resolveAndValidatePath(rootArgument)
	if validationError != nil {
		return validationError
	}
	if !validatedRoot.IsDir {
		return fmt.Errorf(errorRootNotDirectoryFormat, rootArgument)
	}

	ignorePatterns, combineError := config.CombineIgnorePatterns(options.ignoreFilePath, applicationConfiguration.Export.Ignore, options.ignorePatterns)
	if combineError != nil {
		return combineError
	}

	maxDepth := options.maxDepth
	if !command.Flags().Changed(maxDepthFlagName) && applicationConfiguration.Export.MaxDepth != nil {
		maxDepth = *applicationConfiguration.Export.MaxDepth
	}
	includeRoot := options.includeRoot
	if !command.Flags().Changed(includeRootFlagName) && applicationConfiguration.Export.IncludeRoot != nil {
		includeRoot = *applicationConfiguration.Export.IncludeRoot
	}

	exporter := &commands.TreeExporter{
		IgnorePatterns: ignorePatterns,
		MaxDepth:       maxDepth,
		IncludeRoot:    includeRoot,
		Logger:         loggerInstance,
	}
	structureText, exportError := exporter.ExportTree(validatedRoot.AbsolutePath)
	if exportError != nil {
		return exportError
	}

	if options.outputFilePath != "" {
		if writeError := os.WriteFile(options.outputFilePath, []byte(structureText), outputFilePermissions); writeError != nil {
			return fmt.Errorf(errorWriteOutputFormat, options.outputFilePath, writeError)
		}
	} else {
		fmt.Fprint(command.OutOrStdout(), structureText)
	}

	if options.copyToClipboard {
		if copyError := clipboard.NewService().Copy(structureText); copyError != nil {
			return fmt.Errorf(errorCopyClipboardFormat, copyError)
		}
	}
	return nil
}

// runCreate executes the create command for a structure file or standard input.
func runCreate(command *cobra.Command, specArgument string, options createOptions, verboseEnabled bool, configFilePath string) error {
	loggerInstance, loggerError := utils.NewApplicationLogger(verboseEnabled)
	if loggerError != nil {
		return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
	}
	defer func() {
		_ = loggerInstance.Sync()
	}()

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: configFilePath})
	if configurationError != nil {
		return configurationError
	}

	conflictPolicy := options.conflictPolicy
	if !command.Flags().Changed(onConflictFlagName) && applicationConfiguration.Create.OnConflict != "" {
		conflictPolicy = applicationConfiguration.Create.OnConflict
	}
	if !utils.ContainsString([]string{types.ConflictPolicyFail, types.ConflictPolicySkip}, conflictPolicy) {
		return fmt.Errorf(invalidConflictPolicyFormat, onConflictFlagName, conflictPolicy, types.ConflictPolicyFail, types.ConflictPolicySkip)
	}
	stripRoot := options.stripRoot
	if !command.Flags().Changed(stripRootFlagName) && applicationConfiguration.Create.StripRoot != nil {
		stripRoot = *applicationConfiguration.Create.StripRoot
	}

	specText, readError := readSpecText(command.InOrStdin(), specArgument)
	if readError != nil {
		return readError
	}

	targetDirectoryPath, targetError := prepareTargetDirectory(options.targetDirectory)
	if targetError != nil {
		return targetError
	}

	builder := &commands.TreeBuilder{
		ConflictPolicy: conflictPolicy,
		StripRoot:      stripRoot,
		Logger:         loggerInstance,
	}
	return builder.CreateTree(specText, targetDirectoryPath)
}

// readSpecText loads the structure text from a file or standard input.
func readSpecText(standardInput io.Reader, specArgument string) (string, error) {
	if specArgument == standardInputSpecification {
		specBytes, readError := io.ReadAll(standardInput)
		if readError != nil {
			return "", fmt.Errorf(errorReadStandardInput, readError)
		}
		return string(specBytes), nil
	}
	specBytes, readError := os.ReadFile(specArgument)
	if readError != nil {
		return "", fmt.Errorf(errorReadSpecFileFormat, specArgument, readError)
	}
	return string(specBytes), nil
}

// prepareTargetDirectory resolves the target root and creates it if absent.
func prepareTargetDirectory(targetDirectory string) (string, error) {
	absoluteTargetPath, absolutePathError := filepath.Abs(targetDirectory)
	if absolutePathError != nil {
		return "", fmt.Errorf(errorAbsolutePathFormat, targetDirectory, absolutePathError)
	}
	if makeDirectoryError := os.MkdirAll(absoluteTargetPath, 0o755); makeDirectoryError != nil {
		return "", fmt.Errorf(errorCreateTargetFormat, absoluteTargetPath, makeDirectoryError)
	}
	return absoluteTargetPath, nil
}

// resolveAndValidatePath converts an input path to absolute form and validates its existence.
func resolveAndValidatePath(inputPath string) (types.ValidatedPath, error) {
	absolutePath, absolutePathError := filepath.Abs(inputPath)
	if absolutePathError != nil {
		return types.ValidatedPath{}, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
	}
	cleanPath := filepath.Clean(absolutePath)
	info, fileStatusError := os.Stat(cleanPath)
	if fileStatusError != nil {
		if os.IsNotExist(fileStatusError) {
			return types.ValidatedPath{}, fmt.Errorf(errorPathMissingFormat, inputPath)
		}
		return types.ValidatedPath{}, fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
	}
	return types.ValidatedPath{AbsolutePath: cleanPath, IsDir: info.IsDir()}, nil
}
