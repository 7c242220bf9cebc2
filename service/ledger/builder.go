package ledger

import (
	"interest/core"
	"interest/pkg/id"
	"interest/pkg/layout"
)

// Builder builds instructions for the lending program. Instruction
// names, argument order and account order are a fixed external
// contract; changing any of them here breaks against the deployed
// program.
type Builder struct {
	programID string
	signer    string
}

// NewBuilder instruction builder for one program and signer
func NewBuilder(programID, signer string) *Builder {
	return &Builder{programID: programID, signer: signer}
}

func (b *Builder) build(name, tokenMint string, args ...interface{}) (*core.Instruction, error) {
	data, err := layout.Instruction(name, args...)
	if err != nil {
		return nil, err
	}

	accounts := []core.AccountMeta{
		{Address: b.signer, Signer: true, Writable: true},
	}
	if tokenMint != "" {
		accounts = append(accounts, core.AccountMeta{Address: tokenMint})
	}

	return &core.Instruction{
		Program:  b.programID,
		Accounts: accounts,
		Data:     data,
		TraceID:  id.GenTraceID(),
	}, nil
}

// DepositCollateral lock amount of the mint as collateral
func (b *Builder) DepositCollateral(tokenMint string, amount uint64) (*core.Instruction, error) {
	return b.build("deposit_collateral", tokenMint, amount)
}

// MintDsc mint amount of stablecoin against the deposit, priced at the
// supplied 1e4 scaled collateral price
func (b *Builder) MintDsc(tokenMint string, amount, price uint64) (*core.Instruction, error) {
	return b.build("mint_dsc", tokenMint, amount, price)
}

// WithdrawCollateral release amount of collateral at the supplied price
func (b *Builder) WithdrawCollateral(tokenMint string, amount, price uint64) (*core.Instruction, error) {
	return b.build("withdraw_collateral", tokenMint, amount, price)
}

// LiquidateUser repay debtToCover scaled debt units of the target's
// debt and seize their collateral at the supplied price. The target
// rides along as a read only account.
func (b *Builder) LiquidateUser(tokenMint, targetUser string, debtToCover, price uint64) (*core.Instruction, error) {
	ins, err := b.build("liquidate_user", tokenMint, debtToCover, price)
	if err != nil {
		return nil, err
	}

	ins.Accounts = append(ins.Accounts, core.AccountMeta{Address: targetUser})
	return ins, nil
}

// GiveLiquidity add amount of the mint to the liquidity pool
func (b *Builder) GiveLiquidity(tokenMint string, amount uint64) (*core.Instruction, error) {
	return b.build("give_liquidity", tokenMint, amount)
}

// RedeemLiquidity withdraw the signer's whole pool share plus earnings
func (b *Builder) RedeemLiquidity(tokenMint string) (*core.Instruction, error) {
	return b.build("redeem_liquidity", tokenMint)
}

// StartToken register a mint with its initial 1e4 scaled price
func (b *Builder) StartToken(tokenMint string, price uint64) (*core.Instruction, error) {
	return b.build("start_token", tokenMint, price)
}

// StartEngine initialize the engine parameters
func (b *Builder) StartEngine(threshold, minHealthFactor, liquidationBonus, feePercent uint64) (*core.Instruction, error) {
	return b.build("start_engine", "", threshold, minHealthFactor, liquidationBonus, feePercent)
}

// Temp upload a freshly computed health factor for targetUser's record.
// The target rides along as a read only account when it is not the
// signer, which is how a liquidator refreshes its victim's record.
func (b *Builder) Temp(tokenMint, targetUser string, healthFactor uint64) (*core.Instruction, error) {
	ins, err := b.build("temp", tokenMint, healthFactor)
	if err != nil {
		return nil, err
	}

	if targetUser != "" && targetUser != b.signer {
		ins.Accounts = append(ins.Accounts, core.AccountMeta{Address: targetUser})
	}

	return ins, nil
}

// GetHf ask the program to recompute the signer's health factor at the
// supplied price
func (b *Builder) GetHf(tokenMint string, price uint64) (*core.Instruction, error) {
	return b.build("get_hf", tokenMint, price)
}
